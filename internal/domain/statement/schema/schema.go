// Package schema defines the canonical statement columns and the header
// aliases banks use for them.
package schema

// Key is a canonical column name
type Key string

const (
	Date              Key = "date"
	Narration         Key = "narration"
	RefNo             Key = "ref_no"
	TransactionNumber Key = "transaction_number"
	ValueDate         Key = "value_date"
	Withdrawal        Key = "withdrawal"
	Deposit           Key = "deposit"
	Balance           Key = "balance"
)

// Alias binds a canonical key to the header texts that may denote it
type Alias struct {
	Key     Key
	Aliases []string
}

// aliasTable is ordered; resolution walks keys in this order.
var aliasTable = []Alias{
	{Date, []string{"date", "txn date", "transaction date", "value date", "posting date", "book date"}},
	{Narration, []string{"narration", "naration", "description", "transaction details", "particulars", "remarks", "details"}},
	{RefNo, []string{"chq/ref number", "reference number", "ref no", "cheque no", "ref", "chq no"}},
	{TransactionNumber, []string{"txn no.", "transaction no", "transaction number"}},
	{ValueDate, []string{"value date", "posting date", "effective date"}},
	{Withdrawal, []string{"withdrawal", "dr amount", "debit", "withdrawal amount", "debit amount"}},
	{Deposit, []string{"deposit", "cr amount", "credit", "deposit amount", "credit amount"}},
	{Balance, []string{"balance", "closing balance", "available balance", "running balance", "current balance"}},
}

// Aliases returns a copy of the alias table in resolution order
func Aliases() []Alias {
	out := make([]Alias, len(aliasTable))
	for i, a := range aliasTable {
		out[i] = Alias{Key: a.Key, Aliases: append([]string(nil), a.Aliases...)}
	}
	return out
}

// Keys returns every canonical key in resolution order
func Keys() []Key {
	keys := make([]Key, len(aliasTable))
	for i, a := range aliasTable {
		keys[i] = a.Key
	}
	return keys
}

// ColumnMap maps canonical keys to zero-based column indices.
// Index 0 is a valid binding.
type ColumnMap map[Key]int

// Get returns the column bound to key
func (m ColumnMap) Get(key Key) (int, bool) {
	idx, ok := m[key]
	return idx, ok
}

// Has reports whether key is bound
func (m ColumnMap) Has(key Key) bool {
	_, ok := m[key]
	return ok
}

// Bind assigns idx to key if the key is still unbound and reports whether it did.
// Existing bindings are never replaced.
func (m ColumnMap) Bind(key Key, idx int) bool {
	if m.Has(key) {
		return false
	}
	m[key] = idx
	return true
}
