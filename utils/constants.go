// File: utils/constants.go
package utils

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// BookCachePrefix is the prefix used for cached book documents.
const BookCachePrefix = "book:"

// MaxPage bounds ?page so the storage skip (page-1)*limit cannot overflow.
const MaxPage = 10000
