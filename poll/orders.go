package poll

import (
	"log"
	"sort"

	"logidash/backend"
)

// OrdersFetcher builds the orders-list aggregate: one fetch per listable
// status, concatenated and sorted by order date descending. A failed status
// fetch is dropped from the aggregate rather than failing it; partial results
// are acceptable and not surfaced.
func OrdersFetcher(client *backend.Client) FetchFunc[[]backend.Order] {
	return func() ([]backend.Order, error) {
		var all []backend.Order
		for _, status := range backend.ListableStatuses {
			orders, err := client.OrdersByStatus(status)
			if err != nil {
				log.Printf("poll: orders status %s dropped: %v", status, err)
				continue
			}
			all = append(all, orders...)
		}
		sort.SliceStable(all, func(i, j int) bool {
			return all[i].OrderDate.Time.After(all[j].OrderDate.Time)
		})
		return all, nil
	}
}
