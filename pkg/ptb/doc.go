/*
Package ptb builds programmable transactions. A Builder collects inputs and
commands, checks that every argument refers to something that already
exists, and serializes the result into TransactionData bytes ready to be
signed. Inputs are numbered in the order they're added and commands in the
order they're declared, the Argument values handed out never change.

A Builder is not safe for concurrent use, once built it can't be modified.
*/
package ptb
