// Package store defines the hierarchical key-value store the view
// composer reads from and writes to, along with the tree helpers shared
// by its implementations.
//
// # Model
//
// A store is a tree addressed by slash separated paths such as
// "heros" or "@views/rosa".  Values written to the tree are flattened
// into leaves: objects become children keyed by field name and arrays
// become children keyed by decimal index.  Null values and empty
// containers do not exist in the tree, so writing them removes whatever
// was at their location.
//
// Reading a path yields the ordered children of the node found there.
// Integer keys sort first, numerically, followed by the remaining keys
// in lexical order.  Only children holding objects are records; other
// children are skipped.
//
// # Implementations
//
//   - memstore: in memory, used by tests and the CLI import path
//   - sqlstore: leaves kept in an SQLite table
//   - yamlstore: an in memory tree persisted to a YAML file
package store
