package ports

// Hasher computes content hashes for conversion-cache lookups.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeTreeHash hashes a package source tree: every file path and its
	// content, in deterministic order.
	ComputeTreeHash(root string) (string, error)
}
