// Package circle maintains per-account witness sets and the membership
// check shared by the quorum voting protocols (x/medical, x/freeze).
package circle
