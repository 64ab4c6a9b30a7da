package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/mateusz58/catalog-staging/config"
	"github.com/mateusz58/catalog-staging/internal/app/service"
	apperrors "github.com/mateusz58/catalog-staging/internal/errors"
	"github.com/mateusz58/catalog-staging/pkg/catalogapi"
	"github.com/mateusz58/catalog-staging/pkg/logger"
	"github.com/mateusz58/catalog-staging/pkg/util"
)

// scriptOp is one staging operation of a change script.
type scriptOp struct {
	Op              string `json:"op"`
	Ref             string `json:"ref"`
	Variant         string `json:"variant"`
	Picture         string `json:"picture"`
	ColorID         *uint  `json:"color_id"`
	CustomColorName string `json:"custom_color_name"`
	File            string `json:"file"`
	Order           int    `json:"order"`
	Field           string `json:"field"`
	Value           string `json:"value"`
}

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: catalogctl <component-id> <script.json> [--flush]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.EnableColor,
	})

	componentID, err := strconv.ParseUint(os.Args[1], 10, 64)
	if err != nil {
		logger.Fatal("Invalid component id", err)
	}
	scriptPath := os.Args[2]
	doFlush := len(os.Args) > 3 && os.Args[3] == "--flush"

	client, err := catalogapi.NewClient(catalogapi.Config{
		BaseURL:   cfg.API.BaseURL,
		CSRFToken: cfg.API.CSRFToken,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	})
	if err != nil {
		logger.Fatal("Failed to create backend client", err)
	}

	session := service.NewStagingSession(client, uint(componentID), cfg.API.MaxConcurrency)
	ctx := context.Background()
	if err := session.Hydrate(ctx); err != nil {
		logger.Fatal("Failed to hydrate session", err)
	}

	ops, err := loadScript(scriptPath)
	if err != nil {
		logger.Fatal("Failed to load change script", err)
	}

	// field-change bursts coalesce into one revalidation, like typing in
	// the form does
	revalidate := util.NewDebouncer(util.DefaultDebounceDelay)

	refs := map[string]string{}
	for i, op := range ops {
		if err := applyOp(session, refs, op); err != nil {
			info := apperrors.ParseError(err)
			logger.Fatal("Script operation failed", err, map[string]interface{}{
				"index": i,
				"op":    op.Op,
				"code":  info.Code,
				"hint":  info.Message,
			})
		}
		if op.Op == "set_field" {
			revalidate.Trigger(func() {
				logger.Debug("Revalidated after field change", map[string]interface{}{
					"submittable": session.Validate().Submittable,
				})
			})
		}
	}

	// the final report supersedes any still-pending revalidation
	revalidate.Cancel()
	report := session.Validate()
	printReport(session, report)

	if !doFlush {
		return
	}
	if !report.Submittable {
		fmt.Fprintln(os.Stderr, "form is not submittable, refusing to flush")
		os.Exit(1)
	}
	if err := session.Flush(ctx); err != nil {
		info := apperrors.ParseError(err)
		logger.Error("Flush failed", err, map[string]interface{}{"code": info.Code})
		fmt.Fprintln(os.Stderr, info.Message)
		os.Exit(1)
	}
	fmt.Println("flushed")
}

func loadScript(path string) ([]scriptOp, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ops []scriptOp
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, err
	}
	return ops, nil
}

func applyOp(session *service.StagingSession, refs map[string]string, op scriptOp) error {
	variantID := resolveRef(refs, op.Variant)
	pictureID := resolveRef(refs, op.Picture)

	switch op.Op {
	case "add_variant":
		id := session.AddVariant()
		if op.Ref != "" {
			refs[op.Ref] = id
		}
		return nil
	case "set_color":
		return session.SetVariantColor(variantID, service.ColorChoice{
			ColorID:    op.ColorID,
			CustomName: op.CustomColorName,
		})
	case "remove_variant":
		return session.RemoveVariant(variantID)
	case "undo_variant_deletion":
		return session.UndoVariantDeletion(variantID)
	case "add_picture":
		data, err := os.ReadFile(op.File)
		if err != nil {
			return err
		}
		ids, err := session.AddPictures(variantID, []service.PictureFile{{FileName: op.File, Data: data}})
		if err != nil {
			return err
		}
		if op.Ref != "" && len(ids) > 0 {
			refs[op.Ref] = ids[0]
		}
		return nil
	case "remove_picture":
		return session.RemovePicture(variantID, pictureID)
	case "undo_picture_deletion":
		return session.UndoPictureDeletion(variantID, pictureID)
	case "set_order":
		return session.SetPictureOrder(variantID, pictureID, op.Order)
	case "set_primary":
		return session.SetPrimaryPicture(variantID, pictureID)
	case "set_field":
		return session.OnComponentFieldChange(service.ComponentField(op.Field), op.Value)
	default:
		return fmt.Errorf("unknown script op %q", op.Op)
	}
}

func resolveRef(refs map[string]string, id string) string {
	if resolved, ok := refs[id]; ok {
		return resolved
	}
	return id
}

func printReport(session *service.StagingSession, report service.ValidationReport) {
	for _, v := range session.Snapshot() {
		marker := " "
		if v.MarkedDeleted {
			marker = "D"
		} else if v.Pending {
			marker = "+"
		}
		fmt.Printf("%s variant %-12s color=%q\n", marker, v.ID, v.ColorName)
		for _, p := range v.Pictures {
			flags := ""
			if p.IsPrimary {
				flags += " primary"
			}
			if p.Staged {
				flags += " staged"
			}
			if p.MarkedDeleted {
				flags += " deleted"
			}
			fmt.Printf("    #%d %-30s%s\n", p.Order, p.Name, flags)
		}
	}
	fmt.Printf("submittable=%v valid=%v all_valid=%v\n",
		report.Submittable, report.HasValidVariants, report.AllVariantsValid)
}
