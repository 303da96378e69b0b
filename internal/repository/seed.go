package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/spec-kit/case-service/internal/domain"
)

// SeedCases returns the sample cases the demo starts with.
func SeedCases() []domain.Case {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return []domain.Case{
		{
			ID:                 "1",
			CaseNumber:         "HC-2024-001",
			ClientName:         "John Smith",
			ClientEmail:        "john.smith@email.com",
			ClientPhone:        "(555) 123-4567",
			Status:             domain.CaseStatusOpen,
			Priority:           domain.CasePriorityHigh,
			PropertyAddress:    "123 Main Street",
			PropertyCity:       "Toronto",
			PropertyProvince:   "ON",
			PropertyPostalCode: "M5V 3A8",
			IssueType:          "Rent Increase",
			Description:        "Client reports unauthorized rent increase without proper notice.",
			AssignedTo:         "Sarah Johnson",
			Notes:              "Initial assessment completed. Awaiting documentation.",
			CreatedAt:          day(2024, time.January, 15),
			UpdatedAt:          day(2024, time.January, 20),
			CreatedBy:          "admin@housing.gov",
			LastModifiedBy:     "sarah.johnson@housing.gov",
		},
		{
			ID:                 "2",
			CaseNumber:         "HC-2024-002",
			ClientName:         "Maria Garcia",
			ClientEmail:        "maria.garcia@email.com",
			ClientPhone:        "(555) 234-5678",
			Status:             domain.CaseStatusInProgress,
			Priority:           domain.CasePriorityCritical,
			PropertyAddress:    "456 Oak Avenue",
			PropertyCity:       "Vancouver",
			PropertyProvince:   "BC",
			PropertyPostalCode: "V6B 4X1",
			IssueType:          "Unsafe Living Conditions",
			Description:        "Mold, water damage, and heating system failure in rental unit.",
			AssignedTo:         "Robert Chen",
			Notes:              "Site inspection scheduled for Jan 25. Landlord contacted.",
			CreatedAt:          day(2024, time.January, 10),
			UpdatedAt:          day(2024, time.January, 21),
			CreatedBy:          "admin@housing.gov",
			LastModifiedBy:     "robert.chen@housing.gov",
		},
		{
			ID:                 "3",
			CaseNumber:         "HC-2024-003",
			ClientName:         "James Wilson",
			ClientEmail:        "james.wilson@email.com",
			ClientPhone:        "(555) 345-6789",
			Status:             domain.CaseStatusPendingReview,
			Priority:           domain.CasePriorityMedium,
			PropertyAddress:    "789 Elm Street",
			PropertyCity:       "Montreal",
			PropertyProvince:   "QC",
			PropertyPostalCode: "H1A 1A1",
			IssueType:          "Lease Dispute",
			Description:        "Disagreement over lease renewal terms and conditions.",
			AssignedTo:         "Emma Davis",
			Notes:              "Awaiting legal review before proceeding.",
			CreatedAt:          day(2024, time.January, 5),
			UpdatedAt:          day(2024, time.January, 19),
			CreatedBy:          "admin@housing.gov",
			LastModifiedBy:     "emma.davis@housing.gov",
		},
		{
			ID:                 "4",
			CaseNumber:         "HC-2024-004",
			ClientName:         "Lisa Anderson",
			ClientEmail:        "lisa.anderson@email.com",
			ClientPhone:        "(555) 456-7890",
			Status:             domain.CaseStatusClosed,
			Priority:           domain.CasePriorityLow,
			PropertyAddress:    "321 Pine Road",
			PropertyCity:       "Calgary",
			PropertyProvince:   "AB",
			PropertyPostalCode: "T2P 0H5",
			IssueType:          "Deposit Return",
			Description:        "Landlord refusing to return security deposit after move-out.",
			AssignedTo:         "Michael Brown",
			Notes:              "Case resolved. Full deposit returned to client.",
			CreatedAt:          day(2023, time.December, 1),
			UpdatedAt:          day(2024, time.January, 15),
			CreatedBy:          "admin@housing.gov",
			LastModifiedBy:     "michael.brown@housing.gov",
		},
	}
}

// Seed loads the sample cases into an empty store. A non-empty store is left untouched.
func Seed(ctx context.Context, repo CaseRepository) (int, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count cases: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	seeded := 0
	for _, c := range SeedCases() {
		c := c
		if err := repo.Create(ctx, &c); err != nil {
			return seeded, fmt.Errorf("seed %s: %w", c.CaseNumber, err)
		}
		seeded++
	}
	return seeded, nil
}
