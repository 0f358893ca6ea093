package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/infrastructure/postgres"
	"github.com/jhoicas/frontdesk-api/pkg/config"
)

var seedCatalogCmd = &cobra.Command{
	Use:   "seed-catalog [catalogo.xml]",
	Short: "Importa tipos de habitación y planes tarifarios desde un XML",
	Long: `Importa el catálogo exportado por el PMS. El archivo suele venir en ISO-8859-1:

  <catalogo>
    <tipoHabitacion codigo="DBL" nombre="Doble" iva="6"/>
    <plan codigo="BB" nombre="Alojamiento y desayuno"/>
  </catalogo>

La importación es todo o nada y se puede repetir: los códigos existentes se actualizan.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeedCatalog,
}

func init() {
	rootCmd.AddCommand(seedCatalogCmd)
	seedCatalogCmd.Flags().Bool("dry-run", false, "Solo validar el archivo")
}

type catalogFile struct {
	RoomTypes []entity.RoomType
	RatePlans []entity.RatePlan
}

// parseCatalog lee el XML de catálogo. Acepta UTF-8 e ISO-8859-1/Windows-1252.
func parseCatalog(r io.Reader) (*catalogFile, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(label) {
		case "iso-8859-1", "iso8859-1", "latin1":
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		case "windows-1252", "cp1252":
			return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
		}
		return input, nil
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("leer XML: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "catalogo" {
		return nil, fmt.Errorf("se esperaba el elemento raíz <catalogo>")
	}

	out := &catalogFile{}
	for _, el := range root.SelectElements("tipoHabitacion") {
		code := strings.TrimSpace(el.SelectAttrValue("codigo", ""))
		name := strings.TrimSpace(el.SelectAttrValue("nombre", ""))
		if code == "" || name == "" {
			return nil, fmt.Errorf("tipoHabitacion sin codigo o nombre (elemento %d)", el.Index())
		}
		rate := decimal.Zero
		if v := strings.TrimSpace(el.SelectAttrValue("iva", "")); v != "" {
			d, err := decimal.NewFromString(strings.Replace(v, ",", ".", 1))
			if err != nil || d.IsNegative() {
				return nil, fmt.Errorf("tipoHabitacion %s: iva %q inválido", code, v)
			}
			rate = d
		}
		out.RoomTypes = append(out.RoomTypes, entity.RoomType{ID: uuid.NewString(), Code: code, Name: name, VATRate: rate})
	}
	for _, el := range root.SelectElements("plan") {
		code := strings.TrimSpace(el.SelectAttrValue("codigo", ""))
		name := strings.TrimSpace(el.SelectAttrValue("nombre", ""))
		if code == "" || name == "" {
			return nil, fmt.Errorf("plan sin codigo o nombre")
		}
		out.RatePlans = append(out.RatePlans, entity.RatePlan{ID: uuid.NewString(), Code: code, Name: name})
	}
	return out, nil
}

func runSeedCatalog(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup("seed-catalog")
	if err != nil {
		return err
	}
	path := "catalogo.xml"
	if len(args) > 0 {
		path = args[0]
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("abrir catálogo: %w", err)
	}
	defer f.Close()

	cat, err := parseCatalog(f)
	if err != nil {
		return err
	}
	log.Info().Int("room_types", len(cat.RoomTypes)).Int("rate_plans", len(cat.RatePlans)).Msg("catálogo leído")

	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		return nil
	}
	if cfg.DB.Persistence != config.PersistencePostgres {
		return fmt.Errorf("seed-catalog requiere PERSISTENCE=%s", config.PersistencePostgres)
	}

	ctx := cmd.Context()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	return postgres.NewTxRunner(pool).RunCatalog(ctx, func(repo *postgres.CatalogRepo) error {
		return importCatalog(ctx, repo, cat)
	})
}

func importCatalog(ctx context.Context, repo *postgres.CatalogRepo, cat *catalogFile) error {
	for i := range cat.RoomTypes {
		if err := repo.UpsertRoomType(ctx, &cat.RoomTypes[i]); err != nil {
			return err
		}
	}
	for i := range cat.RatePlans {
		if err := repo.UpsertRatePlan(ctx, &cat.RatePlans[i]); err != nil {
			return err
		}
	}
	return nil
}
