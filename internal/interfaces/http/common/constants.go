package common

import "time"

const (
	// MaxJSONRequestBody limits JSON request bodies.
	MaxJSONRequestBody = 1 << 20
	// MultipartMemory is the part of a multipart form kept in memory before spilling to disk.
	MultipartMemory = 8 << 20
	// DefaultPageSize applies when a list request carries no limit.
	DefaultPageSize = 20
	// RequestTimeout bounds repository calls made while serving a request.
	RequestTimeout = 5 * time.Second
)
