package cluster

// This package defines common methods and operations for clustering geotagged photo collections and publishing the results as KML documents. Common operations include: flattening directory trees, processing photo directories in to point documents, converting point documents in to tracks and cleaning generated artifacts.
