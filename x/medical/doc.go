/*
Package medical implements the witness vote towards a medical unlock.

Anyone can declare an emergency for any account. Witnesses from the
target's security circle then vote. Once three votes are collected the
emergency is marked unlocked and an advisory tag is emitted so that an
external release engine may disburse a fraction of the funds. The
module itself moves no funds.
*/
package medical
