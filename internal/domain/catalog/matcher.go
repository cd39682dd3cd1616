package catalog

import "strings"

// Matcher resolves free-text mentions to catalog records.
//
// Lookup rules, in strict priority order and case-insensitive:
//  1. exact match on name
//  2. candidate name contained in the query (first hit in catalog order wins;
//     the reverse direction, query contained in name, is intentionally not
//     attempted)
//  3. exact match on code
//  4. candidate code contained in the query
//
// Warehouses additionally fall back to the default production warehouse when
// nothing matches. Vendors and products return nil on a miss, never an error.
type Matcher struct {
	snap *Snapshot
}

// NewMatcher creates a Matcher over one catalog snapshot.
func NewMatcher(snap *Snapshot) *Matcher {
	return &Matcher{snap: snap}
}

// MatchVendor finds a vendor mentioned in the query, or nil.
func (m *Matcher) MatchVendor(query string) *Vendor {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	for i := range m.snap.Vendors {
		if strings.ToLower(m.snap.Vendors[i].Name) == q {
			return &m.snap.Vendors[i]
		}
	}
	for i := range m.snap.Vendors {
		name := strings.ToLower(m.snap.Vendors[i].Name)
		if name != "" && strings.Contains(q, name) {
			return &m.snap.Vendors[i]
		}
	}
	for i := range m.snap.Vendors {
		if strings.ToLower(m.snap.Vendors[i].Code) == q {
			return &m.snap.Vendors[i]
		}
	}
	for i := range m.snap.Vendors {
		code := strings.ToLower(m.snap.Vendors[i].Code)
		if code != "" && strings.Contains(q, code) {
			return &m.snap.Vendors[i]
		}
	}
	return nil
}

// MatchProduct finds a product mentioned in the query, or nil.
func (m *Matcher) MatchProduct(query string) *Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	for i := range m.snap.Products {
		if strings.ToLower(m.snap.Products[i].Name) == q {
			return &m.snap.Products[i]
		}
	}
	for i := range m.snap.Products {
		name := strings.ToLower(m.snap.Products[i].Name)
		if name != "" && strings.Contains(q, name) {
			return &m.snap.Products[i]
		}
	}
	for i := range m.snap.Products {
		if strings.ToLower(m.snap.Products[i].Code) == q {
			return &m.snap.Products[i]
		}
	}
	for i := range m.snap.Products {
		code := strings.ToLower(m.snap.Products[i].Code)
		if code != "" && strings.Contains(q, code) {
			return &m.snap.Products[i]
		}
	}
	return nil
}

// MatchWarehouse finds an active warehouse mentioned in the query.
// Falls back to the default production warehouse if it exists and is active;
// returns nil only when neither a match nor the fallback is available.
func (m *Matcher) MatchWarehouse(query string) *Warehouse {
	q := strings.ToLower(strings.TrimSpace(query))
	if q != "" {
		for i := range m.snap.Warehouses {
			if !m.snap.Warehouses[i].IsActive {
				continue
			}
			if strings.ToLower(m.snap.Warehouses[i].Name) == q {
				return &m.snap.Warehouses[i]
			}
		}
		for i := range m.snap.Warehouses {
			if !m.snap.Warehouses[i].IsActive {
				continue
			}
			name := strings.ToLower(m.snap.Warehouses[i].Name)
			if name != "" && strings.Contains(q, name) {
				return &m.snap.Warehouses[i]
			}
		}
		for i := range m.snap.Warehouses {
			if !m.snap.Warehouses[i].IsActive {
				continue
			}
			if strings.ToLower(m.snap.Warehouses[i].Code) == q {
				return &m.snap.Warehouses[i]
			}
		}
		for i := range m.snap.Warehouses {
			if !m.snap.Warehouses[i].IsActive {
				continue
			}
			code := strings.ToLower(m.snap.Warehouses[i].Code)
			if code != "" && strings.Contains(q, code) {
				return &m.snap.Warehouses[i]
			}
		}
	}
	return m.defaultWarehouse()
}

// DefaultWarehouse returns the default production warehouse if active.
func (m *Matcher) DefaultWarehouse() *Warehouse {
	return m.defaultWarehouse()
}

func (m *Matcher) defaultWarehouse() *Warehouse {
	for i := range m.snap.Warehouses {
		if m.snap.Warehouses[i].Code == DefaultWarehouseCode && m.snap.Warehouses[i].IsActive {
			return &m.snap.Warehouses[i]
		}
	}
	return nil
}
