package ledger

// Subtype catalogs. Subtype is stored free-form, but the UI and CLI offer
// these fixed lists per account type; validation stays loose on purpose so
// imports from older data never fail.
var BankSubtypes = []string{
	"Savings",
	"Current",
	"Credit Card",
	"Wallet",
	"Cash",
	"Fixed Deposit",
}

var CryptoSubtypes = []string{
	"Exchange",
	"Hardware Wallet",
	"Stablecoin",
	"DeFi",
}

// SubtypesFor returns the suggested subtypes for an account type.
func SubtypesFor(t AccountType) []string {
	if t == TypeCrypto {
		return CryptoSubtypes
	}
	return BankSubtypes
}

// Default classification catalogs offered when recording transactions.
var ExpenseCategories = []string{
	"Food & Dining",
	"Groceries",
	"Transport",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Rent",
	"Health",
	"Travel",
	CategorySubscriptions,
	"Other",
}

var IncomeCategories = []string{
	"Salary",
	"Freelance",
	"Interest",
	"Investments",
	"Refunds",
	"Gifts",
	"Other",
}

var PaymentModes = []string{
	"UPI",
	"Debit Card",
	"Credit Card",
	"Net Banking",
	"Cash",
	"Crypto Transfer",
}

// CategoriesFor returns the suggested categories for a transaction type.
// Transfers and adjustments carry fixed sentinel categories instead.
func CategoriesFor(t TxType) []string {
	switch t {
	case TxIncome:
		return IncomeCategories
	case TxExpense:
		return ExpenseCategories
	case TxTransfer:
		return []string{CategoryTransfer}
	case TxAdjustment:
		return []string{CategoryAdjustment}
	}
	return nil
}
