package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	contactsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phonebook_contacts_created_total",
		Help: "Total number of contacts created.",
	})
	contactsUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phonebook_contacts_updated_total",
		Help: "Total number of contacts updated.",
	})
	contactsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phonebook_contacts_deleted_total",
		Help: "Total number of contacts deleted.",
	})
	duplicateRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phonebook_duplicate_rejections_total",
		Help: "Total number of creates rejected because number or email already exists.",
	})
)
