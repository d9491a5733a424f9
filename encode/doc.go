// Package encode reads and writes view data as JSON or YAML.
//
// # Usage
//
//	v, err := encode.Decode(data, encode.YAMLFormat)
//	err = encode.Encode(v, os.Stdout, encode.EncodeFormat(encode.JSONFormat))
//
// Decoded values are canonical (see package record).  Encoded objects
// have their keys sorted, so equal values encode identically.
package encode
