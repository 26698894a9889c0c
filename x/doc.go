/*
Package x contains the shared interfaces of all extensions, most notably
the Authenticator abstraction that decouples handlers from the concrete
signature verification mechanism.

Extensions live in subpackages and are wired into an application through
their RegisterRoutes and RegisterQuery functions.
*/
package x
