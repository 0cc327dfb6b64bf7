package entity

// TransactionStatusTrading is the only status the marketplace writes; no terminal state exists yet.
const TransactionStatusTrading = "trading"

type Transaction struct {
	ID        string `json:"id" firestore:"-"`
	ProductID string `json:"product_id" firestore:"productID"`
	BuyerID   string `json:"buyer_id" firestore:"buyerID"`
	SellerID  string `json:"seller_id" firestore:"sellerID"`
	Status    string `json:"status" firestore:"status"`
}

type TransactionFilter struct {
	BuyerID  string
	SellerID string
	Status   string
}

func (f TransactionFilter) Matches(t *Transaction) bool {
	if t == nil {
		return false
	}
	if f.BuyerID != "" && t.BuyerID != f.BuyerID {
		return false
	}
	if f.SellerID != "" && t.SellerID != f.SellerID {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	return true
}

// Inconsistency is a trading transaction whose product does not report isTrading.
type Inconsistency struct {
	TransactionID  string `json:"transaction_id"`
	ProductID      string `json:"product_id"`
	ProductMissing bool   `json:"product_missing"`
}
