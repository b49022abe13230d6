// Package policy maintains the vector index over the compliance policy
// document and serves similarity retrieval for audits.
//
// The index is a JSON file of chunk texts and their embedding vectors.
// Retrieval embeds the query and ranks chunks by ascending cosine distance
// with brute-force scan; policy documents are small enough that no
// approximate index is warranted. Builds are serialized with a file lock so
// concurrent processes cannot corrupt the index.
package policy
