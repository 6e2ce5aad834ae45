package main

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
)

// gen_embedding.go - Utility to generate a random unit-norm embedding for
// manual testing of the enrollment and recognition endpoints
//
// Usage:
//   go run scripts/gen_embedding.go [dim]
//
// Example:
//   go run scripts/gen_embedding.go 128
//
// Output:
//   a JSON array of dim floats, ready to paste into an enroll or
//   recognize request body

func main() {
	dim := 128
	if len(os.Args) > 1 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil || n <= 0 {
			fmt.Println("Usage: go run scripts/gen_embedding.go [dim]")
			os.Exit(1)
		}
		dim = n
	}

	v := make([]float64, dim)
	var norm float64
	for i := range v {
		v[i] = rand.NormFloat64()
		norm += v[i] * v[i]
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] /= norm
	}

	out, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(out))
}
