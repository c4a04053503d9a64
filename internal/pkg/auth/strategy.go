package auth

import "time"

// Claims is the identity extracted from a verified credential.
type Claims struct {
	UserID   int64
	Username string
}

// Strategy abstracts token creation/verification.
type Strategy interface {
	IssueToken(claims Claims) (string, error)
	ParseToken(token string) (*Claims, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
