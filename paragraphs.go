package main

import "math/rand"

var paragraphs = []string{
	"The quick brown fox jumps over the lazy dog. This pangram contains every letter of the alphabet at least once. Pangrams are often used to display font samples and test keyboards.",
	"Programming is the art of telling another human being what one wants the computer to do. It requires logical thinking, problem-solving skills, and attention to detail.",
	"Success is not final, failure is not fatal: it is the courage to continue that counts. Every great achievement begins with the decision to try and the determination to succeed.",
	"The Internet is not just one thing, it is a collection of things – of numerous communications networks that all speak the same digital language. It connects people across the globe.",
	"Education is the most powerful weapon which you can use to change the world. Knowledge empowers individuals and communities to create positive change in society.",
	"Technology is best when it brings people together. It should enhance human connection rather than replace it, making our lives more efficient and meaningful.",
	"Creativity is intelligence having fun. The ability to think outside the box and come up with innovative solutions is what drives progress in every field.",
	"Leadership is not about being in charge. It is about taking care of those in your charge. True leaders inspire and empower others to achieve their full potential.",
	"The future belongs to those who believe in the beauty of their dreams. Vision and determination are the keys to turning aspirations into reality.",
	"Learning is a treasure that will follow its owner everywhere. Continuous education and skill development are essential for personal and professional growth.",
}

func RandomParagraph() string {
	return paragraphs[rand.Intn(len(paragraphs))]
}
