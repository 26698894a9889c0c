/*
Package vault implements a deadman switch. An owner creates a vault
naming an heir and keeps it alive by pinging. Once the owner was
inactive for the whole deadman period the heir may claim, which signals
an external release engine. A panic freeze (see x/freeze) can compress
the remaining wait to one week.
*/
package vault
