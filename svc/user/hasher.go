package user

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns a raw password into its stored form.
type Hasher interface {
	Hash(raw string) (string, error)
}

// Names accepted by NewHasher.
const (
	HasherFake   = "fake"
	HasherBcrypt = "bcrypt"
)

// NewHasher builds a hasher by name. cost only applies to bcrypt; zero means bcrypt.DefaultCost.
func NewHasher(name string, cost int) (Hasher, error) {
	switch strings.ToLower(name) {
	case "", HasherFake:
		return FakeHasher{}, nil
	case HasherBcrypt:
		return NewBcryptHasher(cost)
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

// FakeHasher prefixes the password with "supersecret". Not for real use.
type FakeHasher struct{}

func (FakeHasher) Hash(raw string) (string, error) {
	return "supersecret" + raw, nil
}

// BcryptHasher hashes with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher validates cost against the bcrypt bounds.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

func (h *BcryptHasher) Hash(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
