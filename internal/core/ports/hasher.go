package ports

// Hasher computes content hashes for incremental builds.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashFile returns the content hash of the file at path.
	HashFile(path string) (uint64, error)
	// HashBytes returns the hash of data.
	HashBytes(data []byte) uint64
}
