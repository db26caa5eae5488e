// Package money formatea montos para documentos impresos (factura PDF).
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter imprime montos con separadores de miles del idioma configurado.
type Formatter struct {
	p      *message.Printer
	symbol string
}

// NewFormatter crea un formateador; tag vacío usa español.
func NewFormatter(tag language.Tag, symbol string) *Formatter {
	if tag == language.Und {
		tag = language.Spanish
	}
	return &Formatter{p: message.NewPrinter(tag), symbol: symbol}
}

// Default es el formateador en español con símbolo "$".
func Default() *Formatter {
	return NewFormatter(language.Spanish, "$")
}

// Format devuelve el monto con dos decimales, ej. "$ 1.234.567,50" en español.
// Los negativos (saldo a favor) llevan el signo delante del símbolo.
func (f *Formatter) Format(d decimal.Decimal) string {
	v, _ := d.Round(2).Float64()
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + f.symbol + " " + f.p.Sprintf("%.2f", v)
}

// Quantity imprime una cantidad entera con separador de miles.
func (f *Formatter) Quantity(n int64) string {
	return f.p.Sprintf("%d", n)
}
