/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called buckets, and operate on
serialized protobuf models inside them. Each bucket keeps one model kind
keyed by an arbitrary byte key, most often an account address.
*/
package orm
