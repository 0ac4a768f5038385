// Package bundle signs and verifies exported compiled-table files. A bundle
// is a JWT whose claims carry the grammar fingerprint, the algorithm used to
// compile it, and the generation time; its signature lets a consuming build
// verify the table file was produced by a trusted generator run and has not
// been tampered with in transit.
package bundle

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/darshimo/ruly2/internal/ictiobus/table"
)

// tableSnapshot is the rezi-serializable form of a compiled table, the same
// shape internal/cache uses for its on-disk rows.
type tableSnapshot struct {
	Start string
	Cells []table.Cell
}

const issuer = "ruly2"

// Bundle is a signed export of a compiled table.
type Bundle struct {
	ID          uuid.UUID
	Fingerprint string
	Algorithm   string
	GeneratedAt time.Time
	Table       *table.Table
}

// claims is the JWT claim set a Bundle is encoded as. The table itself
// travels inside the token (as a rezi-encoded, base64 payload claim) so that a
// single signed token is both the manifest and the table data.
type claims struct {
	jwt.RegisteredClaims
	Fingerprint string `json:"fingerprint"`
	Algorithm   string `json:"algorithm"`
	StartState  string `json:"start_state"`
	Payload     string `json:"payload"`
}

// Sign produces a signed bundle token for tbl, built under algorithm, using
// secret as the HMAC signing key.
func Sign(fingerprint, algorithm string, tbl *table.Table, secret []byte) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("could not generate bundle ID: %w", err)
	}

	payload, err := encodeTable(tbl)
	if err != nil {
		return "", err
	}

	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		Fingerprint: fingerprint,
		Algorithm:   algorithm,
		StartState:  tbl.Start,
		Payload:     payload,
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, c)
	return tok.SignedString(secret)
}

// Verify parses and validates a bundle token, returning the reconstructed
// compiled table if the signature checks out and fingerprint matches
// wantFingerprint.
func Verify(tokenString string, secret []byte, wantFingerprint string) (Bundle, error) {
	var c claims
	tok, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return Bundle{}, fmt.Errorf("bundle signature invalid: %w", err)
	}
	if !tok.Valid {
		return Bundle{}, fmt.Errorf("bundle token is not valid")
	}

	if wantFingerprint != "" && c.Fingerprint != wantFingerprint {
		return Bundle{}, fmt.Errorf("bundle was generated for grammar %q, not %q", c.Fingerprint, wantFingerprint)
	}

	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return Bundle{}, fmt.Errorf("bundle subject is not a valid ID: %w", err)
	}

	tbl, err := decodeTable(c.StartState, c.Payload)
	if err != nil {
		return Bundle{}, err
	}

	return Bundle{
		ID:          id,
		Fingerprint: c.Fingerprint,
		Algorithm:   c.Algorithm,
		GeneratedAt: c.IssuedAt.Time,
		Table:       tbl,
	}, nil
}

func encodeTable(tbl *table.Table) (string, error) {
	snapshot := tableSnapshot{Start: tbl.Start, Cells: tbl.Cells()}
	raw := rezi.EncBinary(snapshot)
	return base64.StdEncoding.EncodeToString(raw), nil
}

func decodeTable(start, encoded string) (*table.Table, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("bundle payload is not valid base64: %w", err)
	}

	var snapshot tableSnapshot
	n, err := rezi.DecBinary(raw, &snapshot)
	if err != nil {
		return nil, fmt.Errorf("bundle payload could not be decoded: %w", err)
	}
	if n != len(raw) {
		return nil, fmt.Errorf("bundle payload decoded %d/%d bytes", n, len(raw))
	}

	return table.FromCells(start, snapshot.Cells), nil
}
