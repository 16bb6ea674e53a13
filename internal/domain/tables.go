package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	// Catalog
	&Brand{},
	&Category{},
	&Product{},
	// Shop
	&Customer{},
	&Order{},
	&OrderItem{},
}
