package utils

// ContextKeyCreds is the key under which decrypted session credentials are
// stored in the echo context.
const ContextKeyCreds = "creds"

// CookieName is the session cookie carrying the encrypted connection config.
const CookieName = "PgMinioSession"
