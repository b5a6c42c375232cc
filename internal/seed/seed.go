// Package seed loads demo data against the fixed schema: catalog
// categories, sample opportunities, demo accounts, bookmarks, ratings, and
// reports. Records are typed values, not reflection over whatever columns
// happen to exist; reruns are guarded so seeding stays idempotent.
package seed

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/salem/coop-finder/internal/catalog"
	"github.com/salem/coop-finder/internal/db"
	"github.com/salem/coop-finder/internal/models"
)

type Options struct {
	Opportunities int
	Students      int
	Bookmarks     int
	Ratings       int
	Reports       int
	AdminPassword string
	Seed          int64
}

func (o *Options) applyDefaults() {
	if o.Opportunities <= 0 {
		o.Opportunities = 40
	}
	if o.Students <= 0 {
		o.Students = 12
	}
	if o.Bookmarks <= 0 {
		o.Bookmarks = 30
	}
	if o.Ratings <= 0 {
		o.Ratings = 25
	}
	if o.Reports <= 0 {
		o.Reports = 8
	}
	if o.AdminPassword == "" {
		o.AdminPassword = "admin-ChangeMe1"
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
}

// Summary reports what a run created versus what was already there.
type Summary struct {
	Categories    int
	Opportunities int
	Students      int
	Admins        int
	Bookmarks     int
	Ratings       int
	Reports       int
	Skipped       []string
}

var companies = []string{
	"AON",
	"Deloitte",
	"SAB",
	"Saudi Tadawul Group",
	"Webook",
	"Digital Government Authority",
	"GOSI",
	"Riyadh Air",
	"JASARA PMC",
	"TAWAL",
}

var titles = []string{
	"Cooperative Training Program (Co-op)",
	"IT Co-op Trainee",
	"Project Management Co-op",
	"Finance Co-op Trainee",
	"Marketing Co-op",
	"Data & Analytics Co-op",
	"Cybersecurity Co-op",
	"Business Development Co-op",
	"HR Co-op",
	"Engineering Co-op",
}

// Three in four seeded listings are open, mirroring a catalog where most
// postings are current.
var statuses = []string{
	models.StatusOpen, models.StatusOpen, models.StatusOpen, models.StatusClosed,
}

var studentNames = []string{
	"Sara Alzahrani", "Mohammed Alqahtani", "Nouf Alotaibi", "Abdullah Alharbi",
	"Lama Alsubaie", "Faisal Aldossari", "Reem Alshehri", "Khalid Almutairi",
	"Jana Alghamdi", "Omar Alamri", "Shahad Aljuhani", "Yousef Alshammari",
	"Aisha Alhazmi", "Nasser Alzahrani", "Dana Alqurashi", "Turki Alanazi",
}

var reportTypes = []string{
	models.ReportSpam, models.ReportDuplicate, models.ReportExpired,
	models.ReportWrongInfo, models.ReportScam, models.ReportOther,
}

// Run seeds the database. Per-record failures are logged and counted as
// skips so one bad row never aborts the batch; that tolerance is for this
// operator tool only, request paths report their errors.
func Run(ctx context.Context, pool *pgxpool.Pool, store *db.Store, cat *catalog.Catalog, opts Options) (*Summary, error) {
	opts.applyDefaults()
	rng := rand.New(rand.NewSource(opts.Seed))
	sum := &Summary{}

	if err := store.EnsureCategories(ctx, cat.Categories); err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}
	cats, err := store.Categories(ctx)
	if err != nil {
		return nil, err
	}
	sum.Categories = len(cats)

	if err := seedAdmin(ctx, pool, opts, sum); err != nil {
		return nil, err
	}

	studentIDs, err := seedStudents(ctx, pool, cat, rng, opts, sum)
	if err != nil {
		return nil, err
	}

	oppIDs, err := seedOpportunities(ctx, store, cat, cats, rng, opts, sum)
	if err != nil {
		return nil, err
	}

	seedBookmarks(ctx, pool, rng, studentIDs, oppIDs, opts, sum)
	seedRatings(ctx, pool, rng, studentIDs, oppIDs, opts, sum)
	seedReports(ctx, pool, rng, studentIDs, oppIDs, opts, sum)

	if err := recomputeAverages(ctx, pool); err != nil {
		return nil, err
	}

	return sum, nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, opts Options, sum *Summary) error {
	var exists bool
	if err := pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE is_admin = TRUE)").Scan(&exists); err != nil {
		return fmt.Errorf("admin check: %w", err)
	}
	if exists {
		sum.Skipped = append(sum.Skipped, "admin account already present")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if _, err := pool.Exec(ctx, `
		INSERT INTO users (username, email, password_hash, is_admin)
		VALUES ('admin', 'admin@coop-finder.local', $1, TRUE)
		ON CONFLICT (username) DO NOTHING
	`, string(hash)); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Print("[seed] created demo admin user 'admin'; change its password before exposing this instance")
	sum.Admins = 1
	return nil
}

func seedStudents(ctx context.Context, pool *pgxpool.Pool, cat *catalog.Catalog, rng *rand.Rand, opts Options, sum *Summary) ([]uuid.UUID, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("student-Pass1"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash student password: %w", err)
	}

	var ids []uuid.UUID
	for i := 0; i < opts.Students; i++ {
		name := studentNames[i%len(studentNames)]
		username := fmt.Sprintf("%s%02d", usernameFor(name), i+1)
		email := username + "@student.example.com"
		major := cat.Majors[rng.Intn(len(cat.Majors))]

		tx, err := pool.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("begin student tx: %w", err)
		}

		var userID uuid.UUID
		err = tx.QueryRow(ctx, `
			INSERT INTO users (username, email, password_hash)
			VALUES ($1, $2, $3)
			ON CONFLICT (username) DO NOTHING
			RETURNING id
		`, username, email, string(hash)).Scan(&userID)
		if err != nil {
			// No row returned means the user was already seeded.
			tx.Rollback(ctx)
			sum.Skipped = append(sum.Skipped, "student "+username+" already present")
			continue
		}

		var studentID uuid.UUID
		err = tx.QueryRow(ctx, `
			INSERT INTO students (user_id, full_name, major, phone)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, userID, name, major, saudiMobile(rng)).Scan(&studentID)
		if err != nil {
			tx.Rollback(ctx)
			log.Printf("[seed] student %s: %v", username, err)
			sum.Skipped = append(sum.Skipped, "student "+username)
			continue
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit student tx: %w", err)
		}
		ids = append(ids, studentID)
		sum.Students++
	}

	// Pick up students from earlier runs so bookmarks/ratings still have
	// actors when inserts were skipped.
	if len(ids) == 0 {
		rows, err := pool.Query(ctx, "SELECT id FROM students ORDER BY created_at LIMIT $1", opts.Students)
		if err != nil {
			return nil, fmt.Errorf("load existing students: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var id uuid.UUID
			if err := rows.Scan(&id); err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func seedOpportunities(ctx context.Context, store *db.Store, cat *catalog.Catalog, cats []models.OppCategory, rng *rand.Rand, opts Options, sum *Summary) ([]uuid.UUID, error) {
	existing, err := store.ListOpportunities(ctx, db.ListParams{Limit: opts.Opportunities})
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, opts.Opportunities)
	for _, o := range existing.Opportunities {
		ids = append(ids, o.ID)
	}
	if existing.Total >= opts.Opportunities {
		sum.Skipped = append(sum.Skipped, fmt.Sprintf("opportunities already at %d", existing.Total))
		return ids, nil
	}

	for i := existing.Total; i < opts.Opportunities; i++ {
		region := cat.Regions[rng.Intn(len(cat.Regions))]
		city := region.Cities[rng.Intn(len(region.Cities))]
		deadline := time.Now().AddDate(0, 0, 7+rng.Intn(114))

		o := models.Opportunity{
			Title:       titles[rng.Intn(len(titles))],
			Company:     companies[rng.Intn(len(companies))],
			Description: "Cooperative training opportunity for senior students. Apply with your CV and transcript.",
			Location:    region.Name + "," + city,
			Deadline:    &deadline,
			Status:      statuses[rng.Intn(len(statuses))],
			CategoryID:  cats[rng.Intn(len(cats))].ID,
		}
		if err := store.CreateOpportunity(ctx, &o); err != nil {
			log.Printf("[seed] opportunity %q at %q: %v", o.Title, o.Company, err)
			sum.Skipped = append(sum.Skipped, "opportunity "+o.Title)
			continue
		}
		ids = append(ids, o.ID)
		sum.Opportunities++
	}
	return ids, nil
}

func seedBookmarks(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, studentIDs, oppIDs []uuid.UUID, opts Options, sum *Summary) {
	if len(studentIDs) == 0 || len(oppIDs) == 0 {
		return
	}
	for i := 0; i < opts.Bookmarks; i++ {
		sid := studentIDs[rng.Intn(len(studentIDs))]
		oid := oppIDs[rng.Intn(len(oppIDs))]
		tag, err := pool.Exec(ctx, `
			INSERT INTO bookmarks (student_id, opportunity_id)
			VALUES ($1, $2)
			ON CONFLICT (student_id, opportunity_id) DO NOTHING
		`, sid, oid)
		if err != nil {
			log.Printf("[seed] bookmark: %v", err)
			continue
		}
		if tag.RowsAffected() > 0 {
			sum.Bookmarks++
		}
	}
}

func seedRatings(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, studentIDs, oppIDs []uuid.UUID, opts Options, sum *Summary) {
	if len(studentIDs) == 0 || len(oppIDs) == 0 {
		return
	}
	for i := 0; i < opts.Ratings; i++ {
		sid := studentIDs[rng.Intn(len(studentIDs))]
		oid := oppIDs[rng.Intn(len(oppIDs))]

		lv := 1 + rng.Intn(5)
		we := 1 + rng.Intn(5)
		ms := 1 + rng.Intn(5)
		oc := 1 + rng.Intn(5)
		overall := math.Round(float64(lv+we+ms+oc)/4*100) / 100

		tag, err := pool.Exec(ctx, `
			INSERT INTO ratings (student_id, opportunity_id, learning_value, work_env, mentorship, outcome, overall)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (student_id, opportunity_id) DO NOTHING
		`, sid, oid, lv, we, ms, oc, overall)
		if err != nil {
			log.Printf("[seed] rating: %v", err)
			continue
		}
		if tag.RowsAffected() > 0 {
			sum.Ratings++
		}
	}
}

func seedReports(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, studentIDs, oppIDs []uuid.UUID, opts Options, sum *Summary) {
	if len(studentIDs) == 0 || len(oppIDs) == 0 {
		return
	}
	for i := 0; i < opts.Reports; i++ {
		sid := studentIDs[rng.Intn(len(studentIDs))]
		oid := oppIDs[rng.Intn(len(oppIDs))]
		tag, err := pool.Exec(ctx, `
			INSERT INTO reports (student_id, opportunity_id, report_type, details)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (student_id, opportunity_id) DO NOTHING
		`, sid, oid, reportTypes[rng.Intn(len(reportTypes))], "Seeded report for review workflows.")
		if err != nil {
			log.Printf("[seed] report: %v", err)
			continue
		}
		if tag.RowsAffected() > 0 {
			sum.Reports++
		}
	}
}

// recomputeAverages refreshes every opportunity's avg_rating from its
// ratings in one statement.
func recomputeAverages(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		UPDATE opportunities o
		SET avg_rating = sub.avg
		FROM (
			SELECT opportunity_id, ROUND(AVG(overall)::numeric, 2) AS avg
			FROM ratings
			GROUP BY opportunity_id
		) sub
		WHERE o.id = sub.opportunity_id
	`)
	if err != nil {
		return fmt.Errorf("recompute averages: %w", err)
	}
	return nil
}

func usernameFor(fullName string) string {
	parts := strings.Fields(strings.ToLower(fullName))
	if len(parts) == 0 {
		return "student"
	}
	return parts[0]
}

func saudiMobile(rng *rand.Rand) string {
	digits := make([]byte, 8)
	for i := range digits {
		digits[i] = byte('0' + rng.Intn(10))
	}
	return "+9665" + string(digits)
}
