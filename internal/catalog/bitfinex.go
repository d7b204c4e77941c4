package catalog

// WalletSuffix matches the trailing " on wallet <name>" most Bitfinex ledger
// descriptions end with, capturing the wallet as "wallet".
const WalletSuffix = ` on wallet (?P<wallet>\w+)$`

const (
	num  = `\d+(\.\d+)?`
	rate = `\d+\.\d+`
)

// bitfinexEntries is the built-in catalog in evaluation order. Order matters:
// an entry shadows every later entry that matches the same text.
var bitfinexEntries = []struct {
	typeName string
	source   string
}{
	{"exchange", `Exchange (?P<amount>` + num + `) (?P<symbol>\w+) for (?P<currency>\w+) @ (?P<rate>\d+(\.[\de-]+)?)` + WalletSuffix},
	{"adjustment", `Adjustment #(?P<id>\d+)` + WalletSuffix},
	{"airdrop", `(?P<coin>\w+) (?P<event>airdrop|distribution)` + WalletSuffix},
	{"affiliate-rebate", `Affiliate Rebate \(lev:(?P<level>\d),rebate:(?P<rate>\d+.\d+)%\)` + WalletSuffix},
	{"snapshot", `(?P<coin>.*) snapshot step(\d)` + WalletSuffix},
	{"token-redemption", `(?P<coin>.*) token redemption of (?P<percent>\d+(.\d+)?)%` + WalletSuffix},
	{"hacked", `Extraordinary loss adj of (?P<amount>` + num + `) (?P<currency>.*) for (?P<iou_token_amount>` + num + `)` +
		` (?P<iou_token>\w+) @ (?P<exchange_rate>` + num + `)` + WalletSuffix},
	{"used-margin", `Used Margin Funding Charge on wallet margin`},
	{"unused-margin", `Unused Margin Funding (Charge|Fee) on wallet margin$`},
	{"margin-funding-payment", `Margin Funding Payment` + WalletSuffix},
	{"margin-funding-event", `Funding Event (?P<pair>[\w:\d]+) \((?P<amount>` + num + `)\)` + WalletSuffix},
	{"margin-funding-cost", `Position #(?P<id>\d+) funding cost` + WalletSuffix},
	{"position-cost", `Position funding cost` + WalletSuffix},
	{"close", `Position closed @ (?P<amount>` + num + `)(?P<method> \(TRADE\))?` + WalletSuffix},
	{"claimed", `Position (#(?P<id>\d+) )?claimed @ (?P<price>` + rate + `)` + WalletSuffix},
	{"claim-fee", `Claiming fee for Position claimed (?P<pair>\w+) @ (?P<rate>` + rate + `)` + WalletSuffix},
	{"claimed-no-id", `Position claimed (?P<pair>\w+) @ (?P<rate>` + rate + `)` + WalletSuffix},
	{"fees", `Trading fees for (?P<amount>` + num + `) (?P<currency>\w+) (\((?P<pair>\w+)\) )?@ (?P<rate>` + num + `) ` +
		`on (?P<exchange>\w+) \((?P<fee_rate>` + rate + `)%\)` + WalletSuffix},
	{"claimed-fee", `Position #(?P<id>\d+) claimed @ (?P<price>` + rate + `) \(fee: (?P<fee>` + rate + `) (?P<currency>\w+)\)` + WalletSuffix},
	{"interest", `Interest Payment` + WalletSuffix},
	{"settlement", `Settlement @ (?P<rate>` + rate + `)` + WalletSuffix},
	{"position-settlement", `Position PL @ (?P<rate>` + rate + `) settlement \(trade\)` + WalletSuffix},
	{"crypto-withdrawal-fee", `Crypto Withdrawal fee` + WalletSuffix},
	{"wire-withdrawal", `Wire Transfer Withdrawal #(?P<id>\d+)` + WalletSuffix},
	{"deposit", `Deposit \((?P<coin>\w+)\) #(?P<id>\d+)` + WalletSuffix},
	{"deposit-fee", `Deposit Fee \((?P<source>\w+)\) (?P<id>\d+)` + WalletSuffix},
	{"crypto-withdrawal", `(?P<coin>\w+) (?P<action>Withdrawal) #(?P<id>\d+)` + WalletSuffix},
	{"referral-bonus", `Earned fees from user (?P<user>\d+)` + WalletSuffix},
	// Same shape as crypto-withdrawal-fee, so never reached (see Shadowed).
	{"crypto-withdrawal-fees", `Crypto Withdrawal fee` + WalletSuffix},
	{"canceled-withdrawal", `Canceled withdrawal (?P<reason>fee|request) #(?P<id>\d+)` + WalletSuffix},
	{"swap-fees", `Position #(?P<id>\d+) swap` + WalletSuffix},
	{"transfer", `Transfer of (?P<amount>\d+\.?\d*) (?P<currency>\w+) from wallet (?P<source>\w+) to (?P<target_type>\w+)` + WalletSuffix},
	{"transfer-sub-account", `Transfer of (?P<amount>\d+\.?\d*) (?P<cyy>\w+) from wallet (?P<source_type>\w+) to (?P<target_type>\w+)` +
		` SA\((?P<source_user>\d+)->(?P<target_user>\d+)\)` + WalletSuffix},
	{"trading-rebate", `Trading rebate for (?P<amount>` + num + `) (?P<currency>[\w\d]+) \((?P<pair>[\w:\d]+)\) @ ` +
		`(?P<rate>` + num + `) on (?P<exchange>\w+) \((?P<rebate_rate>\d+.\d+)%\)` + WalletSuffix},
}

// Default returns a new catalog holding the built-in Bitfinex ledger entries.
func Default() *Catalog {
	c := New()
	for _, e := range bitfinexEntries {
		c.MustRegister(e.typeName, e.source)
	}
	return c
}
