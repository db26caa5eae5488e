package repository

// TxRepos agrupa los repositorios atados a una misma transacción.
// Lo entrega el TxRunner de cada adaptador de persistencia.
type TxRepos struct {
	Products  ProductRepository
	Lots      StockLotRepository
	Movements StockMovementRepository
	Customers CustomerRepository
	Ledger    LedgerRepository
	Payments  PaymentRepository
	Sales     SaleRepository
	Invoices  InvoiceRepository
}
