package sizing

import "sort"

// Allocation is the result of fitting a scenario into a day budget.
type Allocation struct {
	// Selected holds the services that fit, in catalog row order.
	Selected []ServiceItem

	// Dropped holds the services the budget could not cover, in catalog
	// row order.
	Dropped []ServiceItem

	// Days is the total effort of the selected services.
	Days float64
}

// FitToBudget greedily packs a scenario's visible services into a day
// budget. Cheapest services are admitted first so the allocation keeps as
// many distinct services as possible; the result lists both selected and
// dropped services in catalog row order, so the outcome is deterministic
// for a given catalog.
//
// This is a heuristic, not an optimizer in the LP sense: the workbook's own
// sizing sheet works the same way, and presales users expect to recognize
// its behavior.
func (c *Catalog) FitToBudget(s *Scenario, size SizeLabel, budgetDays float64) Allocation {
	visible := c.VisibleServices(s)

	type costed struct {
		svc  ServiceItem
		days float64
	}
	items := make([]costed, 0, len(visible))
	for _, svc := range visible {
		items = append(items, costed{svc: svc, days: sanitize(c.EffortFor(s, svc, size))})
	}

	// Cheapest first; ties resolve by catalog row so the order is stable.
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if items[order[a]].days != items[order[b]].days {
			return items[order[a]].days < items[order[b]].days
		}
		return items[order[a]].svc.Row < items[order[b]].svc.Row
	})

	selected := make(map[int]bool, len(items))
	var alloc Allocation
	for _, idx := range order {
		it := items[idx]
		if alloc.Days+it.days > budgetDays {
			continue
		}
		alloc.Days += it.days
		selected[idx] = true
	}

	for i, it := range items {
		if selected[i] {
			alloc.Selected = append(alloc.Selected, it.svc)
		} else {
			alloc.Dropped = append(alloc.Dropped, it.svc)
		}
	}
	return alloc
}
