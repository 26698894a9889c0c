/*
Package sigs provides basic authentication via public key signatures.

Each account is identified by the address of its public key and stores
a sequence that must increase by one with every signed transaction,
which prevents replay attacks. The Decorator verifies all signatures on
an incoming transaction and exposes the signers to downstream handlers
through the Authenticate authenticator.
*/
package sigs
