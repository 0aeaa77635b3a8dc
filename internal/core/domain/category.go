package domain

// VoucherCategory is the closed set of voucher categories. Each category
// carries a static sign table (stock direction, implicit tax entry side)
// instead of runtime branching on strings.
type VoucherCategory string

const (
	CategorySales      VoucherCategory = "SALES"
	CategoryPurchase   VoucherCategory = "PURCHASE"
	CategoryDebitNote  VoucherCategory = "DEBIT_NOTE"  // Purchase return
	CategoryCreditNote VoucherCategory = "CREDIT_NOTE" // Sales return
	CategoryPayment    VoucherCategory = "PAYMENT"
	CategoryReceipt    VoucherCategory = "RECEIPT"
	CategoryJournal    VoucherCategory = "JOURNAL"
	CategoryContra     VoucherCategory = "CONTRA"
)

// TaxRole selects which tax ledgers the implicit tax entries hit.
type TaxRole string

const (
	TaxRoleOutput TaxRole = "OUTPUT" // Tax payable on sales
	TaxRoleInput  TaxRole = "INPUT"  // Input tax credit on purchases
	TaxRoleNone   TaxRole = "NONE"
)

// CategoryProfile is the static sign table for one voucher category.
type CategoryProfile struct {
	// StockDirection is +1 for inflow, -1 for outflow, 0 for no inventory
	// impact. Applied to the positive user-entered quantity.
	StockDirection int

	// TaxEntrySide is the side of the implicit tax entries generated for
	// inventory lines. A sale credits output tax; a sales return debits it
	// back; a purchase debits input tax credit; a purchase return credits
	// it back.
	TaxEntrySide EntryType

	// TaxRole selects the input or output tax ledger bindings.
	TaxRole TaxRole
}

var categoryProfiles = map[VoucherCategory]CategoryProfile{
	CategorySales:      {StockDirection: -1, TaxEntrySide: Credit, TaxRole: TaxRoleOutput},
	CategoryPurchase:   {StockDirection: +1, TaxEntrySide: Debit, TaxRole: TaxRoleInput},
	CategoryDebitNote:  {StockDirection: -1, TaxEntrySide: Credit, TaxRole: TaxRoleInput},
	CategoryCreditNote: {StockDirection: +1, TaxEntrySide: Debit, TaxRole: TaxRoleOutput},
	CategoryPayment:    {StockDirection: 0, TaxRole: TaxRoleNone},
	CategoryReceipt:    {StockDirection: 0, TaxRole: TaxRoleNone},
	CategoryJournal:    {StockDirection: 0, TaxRole: TaxRoleNone},
	CategoryContra:     {StockDirection: 0, TaxRole: TaxRoleNone},
}

// Profile returns the sign table for a category, and whether the category
// is one of the known set.
func (c VoucherCategory) Profile() (CategoryProfile, bool) {
	p, ok := categoryProfiles[c]
	return p, ok
}

// CarriesInventory reports whether vouchers of this category may move stock.
func (c VoucherCategory) CarriesInventory() bool {
	p, ok := categoryProfiles[c]
	return ok && p.StockDirection != 0
}

// Opposite returns the flipped entry side, used when building reversals.
func (t EntryType) Opposite() EntryType {
	if t == Debit {
		return Credit
	}
	return Debit
}
