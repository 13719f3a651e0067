package bnb

import "github.com/kvschema/advisor/ilp"

func init() {
	ilp.Register("bnb", New())
}
