/*
Package freeze implements the witness vote towards a panic freeze.

Witnesses from the target's security circle vote to freeze the target's
vault. Once three votes are collected the vault is frozen and its
heartbeat clock is rewound so that only one week remains before the
heir may claim. Every vote past the quorum re-applies the freeze, so a
compromised owner cannot simply ping the pressure away while the circle
keeps voting.
*/
package freeze
