package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost calcula el nuevo precio de compra tras un ingreso (costo promedio ponderado).
// Nuevo = ((existencias * costoActual) + (cantIngreso * costoIngreso)) / (existencias + cantIngreso)
func WeightedAverageCost(onHand int64, currentCost decimal.Decimal, inQty int64, inCost decimal.Decimal) decimal.Decimal {
	stock := decimal.NewFromInt(onHand)
	in := decimal.NewFromInt(inQty)
	sum := stock.Add(in)
	if sum.LessThanOrEqual(decimal.Zero) {
		return inCost
	}
	num := stock.Mul(currentCost).Add(in.Mul(inCost))
	return num.Div(sum).Round(2)
}
