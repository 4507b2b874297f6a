package seed

import (
	"context"
	"fmt"
	"math/rand"

	"edumatch/internal/store"
	"edumatch/pkg/types"

	"github.com/k0kubun/pp/v3"
)

type fakeNeedSeed struct {
	Title        string
	Description  string
	Category     string
	Location     string
	StudentCount int
	Urgency      types.UrgencyLevel
	SDGs         []int32
}

var fakeNeeds = []fakeNeedSeed{
	{
		Title:        "Classroom laptops for remote learning",
		Description:  "Thirty students share four ageing desktops; laptops would let every pupil follow the digital curriculum.",
		Category:     "technology",
		Location:     "Taitung County",
		StudentCount: 30,
		Urgency:      types.UrgencyHigh,
		SDGs:         []int32{4, 10},
	},
	{
		Title:        "Library restock after flood damage",
		Description:  "The reading corner lost most of its books to water damage and needs replacements across all grades.",
		Category:     "books",
		Location:     "Hualien County",
		StudentCount: 120,
		Urgency:      types.UrgencyMedium,
		SDGs:         []int32{4},
	},
	{
		Title:        "School lunch program top-up",
		Description:  "Rising food costs left a gap in the subsidized lunch budget for the spring term.",
		Category:     "nutrition",
		Location:     "Nantou County",
		StudentCount: 85,
		Urgency:      types.UrgencyHigh,
		SDGs:         []int32{2, 4},
	},
	{
		Title:        "Sports equipment for after-school club",
		Description:  "Basketballs, nets and cones for a new after-school activity program.",
		Category:     "sports",
		Location:     "Pingtung County",
		StudentCount: 45,
		Urgency:      types.UrgencyLow,
		SDGs:         []int32{3, 4},
	},
	{
		Title:        "Science lab starter kits",
		Description:  "Basic chemistry and biology kits so seventh graders can run experiments instead of watching videos.",
		Category:     "science",
		Location:     "Yunlin County",
		StudentCount: 60,
		Urgency:      types.UrgencyMedium,
		SDGs:         []int32{4, 9},
	},
}

// SeedNeeds posts the sample needs, distributing them across the seeded
// schools. Needs are always inserted fresh; run against a dev database.
func SeedNeeds(ctx context.Context, needsRepo *store.NeedRepository, users map[string]*types.User, verbose bool) error {
	schools := schoolIDs(users)
	if len(schools) == 0 {
		return fmt.Errorf("no seeded schools to assign needs to")
	}

	for _, fakeNeed := range fakeNeeds {
		need := &types.Need{
			SchoolID:     schools[rand.Intn(len(schools))],
			Title:        fakeNeed.Title,
			Description:  fakeNeed.Description,
			Category:     fakeNeed.Category,
			Location:     fakeNeed.Location,
			StudentCount: fakeNeed.StudentCount,
			Urgency:      fakeNeed.Urgency,
			SDGs:         fakeNeed.SDGs,
		}

		if err := needsRepo.CreateNeed(ctx, need); err != nil {
			return fmt.Errorf("failed to create seed need %q: %w", fakeNeed.Title, err)
		}

		if verbose {
			pp.Println(need)
		}
	}

	return nil
}
