package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// StudentNumberPrefix is the literal prefix of every generated student number.
const StudentNumberPrefix = "STD"

// NewStudentNumber returns "STD" + year of now + a random suffix in [1000, 9999].
func NewStudentNumber(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		// crypto/rand only fails when the OS source is unavailable
		n = big.NewInt(now.UnixNano() % 9000)
	}
	return fmt.Sprintf("%s%04d%d", StudentNumberPrefix, now.Year(), 1000+n.Int64())
}
