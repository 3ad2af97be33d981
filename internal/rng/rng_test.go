package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrypto_Intn(t *testing.T) {
	a := assert.New(t)

	c := Crypto{}
	found := make(map[int]bool)
	// it's possible this could fail, but not likely
	for i := 0; i < 1000; i++ {
		found[c.Intn(6)] = true
	}

	for i := 0; i < 6; i++ {
		a.True(found[i], "expected %d to be drawn", i)
	}
	a.False(found[6])
}

func TestNewSeeded(t *testing.T) {
	g1 := NewSeeded(42)
	g2 := NewSeeded(42)

	for i := 0; i < 20; i++ {
		assert.Equal(t, g1.Intn(54), g2.Intn(54))
	}
}
