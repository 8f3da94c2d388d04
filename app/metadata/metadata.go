package metadata

import (
	"fmt"
)

// Token describes one side of a liquidity pool.
type Token struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// Pool is the canonical pool metadata record. The flat nine-field map
// representation exists only at boundaries (cache rows, JSON/CSV output).
type Pool struct {
	Address string `json:"address"`
	Token0  Token  `json:"token0"`
	Token1  Token  `json:"token1"`
}

// IsValid reports whether the record is usable: both tokens must carry an
// address, a name and a symbol. Invalid records are filtered by callers but
// may still be cached as negative results.
func (p *Pool) IsValid() bool {
	if p.Address == "" {
		return false
	}

	for _, t := range []*Token{&p.Token0, &p.Token1} {
		if t.Address == "" || t.Name == "" || t.Symbol == "" {
			return false
		}
	}

	return true
}

// Identifier renders the short SYM0/SYM1(address) form.
func (p *Pool) Identifier() string {
	return fmt.Sprintf("%s/%s(%s)", p.Token0.Symbol, p.Token1.Symbol, p.Address)
}

// String renders the two-token detail tree used by the text output format.
func (p *Pool) String() string {
	return fmt.Sprintf(
		"%s\n"+
			"├─ %s\n"+
			"│    ├ %s\n"+
			"│    ├ %s\n"+
			"│    └ %d\n"+
			"└─ %s\n"+
			"     ├ %s\n"+
			"     ├ %s\n"+
			"     └ %d",
		p.Identifier(),
		p.Token0.Name, p.Token0.Symbol, p.Token0.Address, p.Token0.Decimals,
		p.Token1.Name, p.Token1.Symbol, p.Token1.Address, p.Token1.Decimals,
	)
}

// FieldNames is the column order of the flat representation.
var FieldNames = []string{
	"pool_address",
	"token0_address",
	"token0_name",
	"token0_symbol",
	"token0_decimals",
	"token1_address",
	"token1_name",
	"token1_symbol",
	"token1_decimals",
}

// ToMap converts the record into the flat field map.
func (p *Pool) ToMap() map[string]any {
	return map[string]any{
		"pool_address":    p.Address,
		"token0_address":  p.Token0.Address,
		"token0_name":     p.Token0.Name,
		"token0_symbol":   p.Token0.Symbol,
		"token0_decimals": p.Token0.Decimals,
		"token1_address":  p.Token1.Address,
		"token1_name":     p.Token1.Name,
		"token1_symbol":   p.Token1.Symbol,
		"token1_decimals": p.Token1.Decimals,
	}
}

// FieldValues returns the flat representation in FieldNames order,
// rendered as strings for CSV output.
func (p *Pool) FieldValues() []string {
	return []string{
		p.Address,
		p.Token0.Address,
		p.Token0.Name,
		p.Token0.Symbol,
		fmt.Sprintf("%d", p.Token0.Decimals),
		p.Token1.Address,
		p.Token1.Name,
		p.Token1.Symbol,
		fmt.Sprintf("%d", p.Token1.Decimals),
	}
}
