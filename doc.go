// Package tradelog keeps a ledger of option, share and future trades in a
// plain text file.
//
// A Ledger is a list of Trade, the lifecycle of a position on one ticker. A
// Trade is a list of Transaction, each dated economic event of the position,
// and every Transaction carries the Leg it opens or closes.
//
// The ledger file has one record per line, a tag then pipe separated fields:
//
//	T|open|next-leg-id|symbol|name|future-expiry|category|buying-power|notes
//	X|date|description|kind|quantity|price|multiplier|fees|total
//	L|id|back-pointer|original-qty|open-qty|expiry|strike|P/C|action|kind
//
// Transactions belong to the trade above them and legs to the transaction
// above them. Dates are written YYYYMMDD. Free text escapes backslashes and
// pipes with a backslash, and line breaks as the two characters \n. Fields are
// read leniently: a missing or unreadable field gets its zero value.
//
// Everything else is derived on load and after every edit: whether a trade is
// open, its adjusted cost basis, its open legs by put/call and strike, days to
// expiry, share and future positions and the window of its return on buying
// power. Store reads and writes the file, and upgrades the legacy file of
// earlier versions the first time it is loaded.
package tradelog
