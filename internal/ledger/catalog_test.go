package ledger

import "testing"

func TestSubtypesFor(t *testing.T) {
	if got := SubtypesFor(TypeBank); len(got) == 0 || got[0] != "Savings" {
		t.Errorf("bank subtypes = %v", got)
	}
	if got := SubtypesFor(TypeCrypto); len(got) == 0 || got[0] != "Exchange" {
		t.Errorf("crypto subtypes = %v", got)
	}
}

func TestCategoriesFor(t *testing.T) {
	if got := CategoriesFor(TxIncome); len(got) == 0 {
		t.Error("no income categories")
	}

	expense := CategoriesFor(TxExpense)
	found := false
	for _, c := range expense {
		if c == CategorySubscriptions {
			found = true
		}
	}
	if !found {
		t.Errorf("expense categories %v missing %q", expense, CategorySubscriptions)
	}

	if got := CategoriesFor(TxTransfer); len(got) != 1 || got[0] != CategoryTransfer {
		t.Errorf("transfer categories = %v, want only the sentinel", got)
	}
	if got := CategoriesFor(TxAdjustment); len(got) != 1 || got[0] != CategoryAdjustment {
		t.Errorf("adjustment categories = %v, want only the sentinel", got)
	}
	if got := CategoriesFor(TxType("refund")); got != nil {
		t.Errorf("unknown type categories = %v, want nil", got)
	}
}
