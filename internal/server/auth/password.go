package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword digests a plaintext password with bcrypt at the default cost.
// Used by fixtures and seeding; account registration itself lives elsewhere.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// checkPassword verifies a plaintext candidate against a stored bcrypt hash.
// bcrypt is the slow, salted comparison here; a raw equality check would
// defeat the brute-force resistance the scheme exists for.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
