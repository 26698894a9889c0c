/*
Package trust implements the merchant reputation ledger.

Every address owns at most one merchant record keyed by that address.
A missing record reads as a fresh merchant with zero trust, so reading
trust never fails. Merchants bond a stake once for a ten point bonus,
collect single points through vouches up to a cap of one hundred, pick
a nickname and receive direct messages in an on chain inbox.
*/
package trust
