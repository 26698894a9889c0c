/*
Package app links together all the various components to construct a
full-fledged abci application: a store for persistence, a router to
dispatch messages to extension handlers, a decorator chain for
cross-cutting concerns and an initializer to parse the genesis file.
*/
package app
