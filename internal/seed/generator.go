// Package seed generates demo leads spread across the whole pipeline.
package seed

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

var firstNames = []string{
	"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda", "William", "Elizabeth",
	"David", "Barbara", "Richard", "Susan", "Joseph", "Jessica", "Thomas", "Sarah", "Charles", "Karen",
	"Christopher", "Lisa", "Daniel", "Nancy", "Matthew", "Betty", "Anthony", "Margaret", "Mark", "Sandra",
	"Donald", "Ashley", "Steven", "Kimberly", "Paul", "Emily", "Andrew", "Donna", "Joshua", "Michelle",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
	"Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	"Lee", "Perez", "Thompson", "White", "Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson",
}

var companies = []string{
	"TechCorp Solutions", "Global Industries", "Innovative Systems", "Digital Ventures", "Enterprise Group",
	"Prime Technologies", "Future Dynamics", "Apex Solutions", "Quantum Labs", "Stellar Industries",
	"Horizon Enterprises", "Summit Partners", "Velocity Group", "Pinnacle Tech", "Catalyst Solutions",
	"Synergy Inc", "BlueOcean Technologies", "RedRock Ventures", "GreenField Systems", "SilverLine Corp",
}

var domains = []string{"gmail.com", "yahoo.com", "outlook.com", "company.com", "corp.com", "inc.com"}

// Later stages carry bigger deals.
var valueMultiplier = map[entity.Stage]float64{
	entity.StageNew:         0.8,
	entity.StageContacted:   0.9,
	entity.StageQualified:   1.0,
	entity.StageProposal:    1.2,
	entity.StageNegotiation: 1.4,
	entity.StageWon:         1.5,
	entity.StageLost:        0.5,
}

// probabilityRange is [min, min+span).
var probabilityRange = map[entity.Stage][2]int{
	entity.StageNew:         {5, 20},
	entity.StageContacted:   {10, 25},
	entity.StageQualified:   {20, 30},
	entity.StageProposal:    {40, 30},
	entity.StageNegotiation: {50, 25},
}

// Epoch is the earliest createdAt a generated lead can have.
var Epoch = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

type Generator struct {
	rnd *rand.Rand
	now func() time.Time
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), now: entity.Now}
}

func pick[T any](r *rand.Rand, xs []T) T {
	return xs[r.IntN(len(xs))]
}

// Lead builds the index-th demo lead. It bypasses draft validation so that
// createdAt can lie in the past.
func (g *Generator) Lead(index int) *entity.Lead {
	first := pick(g.rnd, firstNames)
	last := pick(g.rnd, lastNames)
	company := pick(g.rnd, companies)
	stage := pick(g.rnd, entity.Stages)
	source := pick(g.rnd, entity.Sources)

	value := float64(int((float64(g.rnd.IntN(50000)+1000) * valueMultiplier[stage])))

	var probability int
	switch stage {
	case entity.StageWon:
		probability = 100
	case entity.StageLost:
		probability = 0
	default:
		pr := probabilityRange[stage]
		probability = pr[0] + g.rnd.IntN(pr[1])
	}

	assignees := append(append([]string{}, firstNames[:10]...), entity.DefaultAssignee)

	now := g.now()
	created := Epoch.Add(time.Duration(g.rnd.Int64N(int64(now.Sub(Epoch))))).Truncate(time.Millisecond)

	notes := fmt.Sprintf("Generated lead #%d. %s %s from %s. Interested in our products/services.", index, first, last, company)
	if source == entity.SourceReferral {
		notes += " Referred by existing customer."
	}

	return &entity.Lead{
		ID:          uuid.New().String(),
		FirstName:   first,
		LastName:    last,
		Email:       g.email(first, last),
		Phone:       fmt.Sprintf("(%d) %d-%d", g.rnd.IntN(900)+100, g.rnd.IntN(900)+100, g.rnd.IntN(9000)+1000),
		Company:     company,
		Source:      source,
		Stage:       stage,
		Value:       value,
		Probability: probability,
		Notes:       notes,
		AssignedTo:  pick(g.rnd, assignees),
		CreatedAt:   created,
		UpdatedAt:   now,
	}
}

func (g *Generator) email(first, last string) string {
	f, l := strings.ToLower(first), strings.ToLower(last)
	local := pick(g.rnd, []string{
		f + "." + l,
		f + l[:1],
		f[:1] + l,
		fmt.Sprintf("%s%d", f, g.rnd.IntN(100)),
	})
	return local + "@" + pick(g.rnd, domains)
}
