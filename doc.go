/*
Package bazaar defines the core types and interfaces of the bazaar
framework: conditions and addresses, transactions and messages, the
key-value store contracts, handlers and decorators, block context helpers
and the abci result types.

Extensions live under x/ and are wired together into an application by the
app package.
*/
package bazaar
