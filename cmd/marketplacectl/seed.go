package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rafabene/marketplace-backend/internal/app"
	"github.com/rafabene/marketplace-backend/internal/domain/entities"
	"github.com/rafabene/marketplace-backend/internal/services"
)

// seedFile é o formato do arquivo YAML de dados de demonstração
type seedFile struct {
	Users []struct {
		ID    string `yaml:"id"`
		Email string `yaml:"email"`
		Name  string `yaml:"name"`
		Role  string `yaml:"role"`
	} `yaml:"users"`

	Products []struct {
		Seller      string   `yaml:"seller"`
		Title       string   `yaml:"title"`
		Description string   `yaml:"description"`
		Category    string   `yaml:"category"`
		Price       string   `yaml:"price"`
		Currency    string   `yaml:"currency"`
		Stock       int      `yaml:"stock"`
		Images      []string `yaml:"images"`
	} `yaml:"products"`

	Jobs []struct {
		Poster         string   `yaml:"poster"`
		Title          string   `yaml:"title"`
		Company        string   `yaml:"company"`
		Description    string   `yaml:"description"`
		Location       string   `yaml:"location"`
		Remote         bool     `yaml:"remote"`
		EmploymentType string   `yaml:"employment_type"`
		Skills         []string `yaml:"skills"`
	} `yaml:"jobs"`

	Events []struct {
		Organizer   string    `yaml:"organizer"`
		Title       string    `yaml:"title"`
		Description string    `yaml:"description"`
		Venue       string    `yaml:"venue"`
		Latitude    float64   `yaml:"latitude"`
		Longitude   float64   `yaml:"longitude"`
		StartsAt    time.Time `yaml:"starts_at"`
		EndsAt      time.Time `yaml:"ends_at"`
		TicketPrice string    `yaml:"ticket_price"`
		Currency    string    `yaml:"currency"`
		Capacity    int       `yaml:"capacity"`
	} `yaml:"events"`

	Freelancers []struct {
		Profile    string   `yaml:"profile"`
		Headline   string   `yaml:"headline"`
		Skills     []string `yaml:"skills"`
		HourlyRate string   `yaml:"hourly_rate"`
	} `yaml:"freelancers"`

	Artistes []struct {
		Profile    string `yaml:"profile"`
		StageName  string `yaml:"stage_name"`
		Genre      string `yaml:"genre"`
		Bio        string `yaml:"bio"`
		BookingFee string `yaml:"booking_fee"`
	} `yaml:"artistes"`

	Credits []struct {
		User   string `yaml:"user"`
		Amount string `yaml:"amount"`
		Note   string `yaml:"note"`
	} `yaml:"credits"`
}

// seedReport conta o que foi criado
type seedReport struct {
	Users, Products, Jobs, Events, Freelancers, Artistes, Credits int
}

func newSeedCommand(rt *runtime) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Carrega dados de demonstração a partir de um arquivo YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			seed, err := loadSeed(f)
			if err != nil {
				return err
			}

			application, err := rt.open(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Close()

			report, err := applySeed(cmd.Context(), application.Services, seed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"seeded %d users, %d products, %d jobs, %d events, %d freelancers, %d artistes, %d credit grants\n",
				report.Users, report.Products, report.Jobs, report.Events, report.Freelancers, report.Artistes, report.Credits)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed.yaml", "arquivo YAML")
	return cmd
}

func loadSeed(r io.Reader) (*seedFile, error) {
	var seed seedFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &seed, nil
}

// applySeed cria os registros pelos serviços, aplicando as mesmas validações da API.
// Perfis são referenciados pelo id declarado em users.
func applySeed(ctx context.Context, svc app.Services, seed *seedFile) (seedReport, error) {
	var report seedReport
	users := make(map[string]*entities.User, len(seed.Users))

	for _, u := range seed.Users {
		user, err := svc.Profiles.EnsureProfile(ctx, u.ID, u.Email, u.Name, u.Role)
		if err != nil {
			return report, fmt.Errorf("user %s: %w", u.ID, err)
		}
		users[u.ID] = user
		report.Users++
	}
	owner := func(id string) (*entities.User, error) {
		if user, ok := users[id]; ok {
			return user, nil
		}
		return svc.Profiles.GetProfile(ctx, id)
	}

	for _, p := range seed.Products {
		seller, err := owner(p.Seller)
		if err != nil {
			return report, fmt.Errorf("product %q: %w", p.Title, err)
		}
		price, err := parseAmount(p.Price)
		if err != nil {
			return report, fmt.Errorf("product %q: %w", p.Title, err)
		}
		_, err = svc.Products.Create(ctx, seller, services.ProductInput{
			Title:       &p.Title,
			Description: &p.Description,
			Category:    &p.Category,
			Price:       price,
			Currency:    optional(p.Currency),
			Stock:       &p.Stock,
			Images:      p.Images,
		})
		if err != nil {
			return report, fmt.Errorf("product %q: %w", p.Title, err)
		}
		report.Products++
	}

	for _, j := range seed.Jobs {
		poster, err := owner(j.Poster)
		if err != nil {
			return report, fmt.Errorf("job %q: %w", j.Title, err)
		}
		employment := entities.EmploymentType(j.EmploymentType)
		_, err = svc.Jobs.Create(ctx, poster, services.JobInput{
			Title:          &j.Title,
			Company:        &j.Company,
			Description:    &j.Description,
			Location:       &j.Location,
			Remote:         &j.Remote,
			EmploymentType: &employment,
			Skills:         j.Skills,
		})
		if err != nil {
			return report, fmt.Errorf("job %q: %w", j.Title, err)
		}
		report.Jobs++
	}

	for _, e := range seed.Events {
		organizer, err := owner(e.Organizer)
		if err != nil {
			return report, fmt.Errorf("event %q: %w", e.Title, err)
		}
		price, err := parseAmount(e.TicketPrice)
		if err != nil {
			return report, fmt.Errorf("event %q: %w", e.Title, err)
		}
		_, err = svc.Events.Create(ctx, organizer, services.EventInput{
			Title:       &e.Title,
			Description: &e.Description,
			Venue:       &e.Venue,
			Latitude:    &e.Latitude,
			Longitude:   &e.Longitude,
			StartsAt:    &e.StartsAt,
			EndsAt:      &e.EndsAt,
			TicketPrice: price,
			Currency:    optional(e.Currency),
			Capacity:    &e.Capacity,
		})
		if err != nil {
			return report, fmt.Errorf("event %q: %w", e.Title, err)
		}
		report.Events++
	}

	for _, f := range seed.Freelancers {
		profile, err := owner(f.Profile)
		if err != nil {
			return report, fmt.Errorf("freelancer %s: %w", f.Profile, err)
		}
		rate, err := parseAmount(f.HourlyRate)
		if err != nil {
			return report, fmt.Errorf("freelancer %s: %w", f.Profile, err)
		}
		if _, err := svc.Talent.CreateFreelancer(ctx, profile, services.FreelancerInput{
			Headline:   &f.Headline,
			Skills:     f.Skills,
			HourlyRate: rate,
		}); err != nil {
			return report, fmt.Errorf("freelancer %s: %w", f.Profile, err)
		}
		report.Freelancers++
	}

	for _, a := range seed.Artistes {
		profile, err := owner(a.Profile)
		if err != nil {
			return report, fmt.Errorf("artiste %s: %w", a.Profile, err)
		}
		fee, err := parseAmount(a.BookingFee)
		if err != nil {
			return report, fmt.Errorf("artiste %s: %w", a.Profile, err)
		}
		if _, err := svc.Talent.CreateArtiste(ctx, profile, services.ArtisteInput{
			StageName:  &a.StageName,
			Genre:      &a.Genre,
			Bio:        &a.Bio,
			BookingFee: fee,
		}); err != nil {
			return report, fmt.Errorf("artiste %s: %w", a.Profile, err)
		}
		report.Artistes++
	}

	for _, c := range seed.Credits {
		amount, err := parseAmount(c.Amount)
		if err != nil || amount == nil {
			return report, fmt.Errorf("credits for %s: invalid amount %q", c.User, c.Amount)
		}
		if _, err := svc.Credits.Grant(ctx, c.User, *amount, c.Note); err != nil {
			return report, fmt.Errorf("credits for %s: %w", c.User, err)
		}
		report.Credits++
	}

	return report, nil
}

// parseAmount retorna nil para valores vazios
func parseAmount(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", raw)
	}
	return &d, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
