package code

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Alphanumeric without the easily confused 0/O/I/l characters, since
// codes get read aloud and retyped between players.
var letters = strings.Split("123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz", "")

const codeLength = 6

func GenerateRandom() string {
	code := ""
	for i := 0; i < codeLength; i++ {
		index, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			panic(err)
		}
		code += letters[index.Int64()]
	}
	return code
}
