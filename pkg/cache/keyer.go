package cache

import "fmt"

// Keyer derives cache keys for planner artifacts.
type Keyer interface {
	// RouteKey identifies the ranked routes between two stations of a network.
	RouteKey(networkHash, from, to string, opts RouteKeyOpts) string

	// NetworkKey identifies the summary of the network built from a dataset.
	NetworkKey(datasetHash string) string

	// DatasetKey identifies a dataset fetched from a remote source.
	DatasetKey(source string) string
}

// RouteKeyOpts holds the search bounds that change a route result.
type RouteKeyOpts struct {
	MaxRoutes       int `json:"max_routes"`
	MaxPathLength   int `json:"max_path_length"`
	MaxInterchanges int `json:"max_interchanges"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RouteKey hashes the station pair and bounds under the network hash.
func (DefaultKeyer) RouteKey(networkHash, from, to string, opts RouteKeyOpts) string {
	return fmt.Sprintf("routes:%s:%s", networkHash, digest(from, to, opts))
}

// NetworkKey returns "network:<datasetHash>".
func (DefaultKeyer) NetworkKey(datasetHash string) string {
	return fmt.Sprintf("network:%s", datasetHash)
}

// DatasetKey hashes the source location.
func (DefaultKeyer) DatasetKey(source string) string {
	return "dataset:" + digest(source)
}
