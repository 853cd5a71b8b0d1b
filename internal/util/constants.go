package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeImage = "image/"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)
