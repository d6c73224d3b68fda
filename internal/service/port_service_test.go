package service

import (
	"context"
	"errors"
	"testing"

	"github.com/northseawatch/scrubber-backend-go/internal/models"
	"github.com/northseawatch/scrubber-backend-go/internal/repository"
)

func TestPortServicePortContent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	ports := repository.NewPortRepository(db)
	svc := NewPortService(ports, repository.NewEngineRepository(db))

	if err := ports.Upsert(ctx, &models.Port{PortName: "Rotterdam", Country: "NLD", Latitude: 51.95, Longitude: 4.14}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if _, err := svc.PortContent(ctx, "Hamburg", "DEU"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("unknown port err = %v", err)
	}

	empty, err := svc.PortContent(ctx, "Rotterdam", "NLD")
	if err != nil {
		t.Fatalf("PortContent: %v", err)
	}
	if empty.PortName != "Rotterdam" || empty.Country != "NLD" || empty.Details != nil || empty.LastUpdated != nil {
		t.Errorf("empty content = %+v", empty)
	}

	details := "Washwater discharge prohibited"
	if err := ports.UpsertContent(ctx, &models.PortContent{PortName: "Rotterdam", Country: "NLD", Details: &details}); err != nil {
		t.Fatalf("UpsertContent: %v", err)
	}
	got, err := svc.PortContent(ctx, "Rotterdam", "NLD")
	if err != nil {
		t.Fatalf("PortContent: %v", err)
	}
	if got.Details == nil || *got.Details != details || got.LastUpdated == nil {
		t.Errorf("content = %+v", got)
	}

	contents, err := svc.PortContents(ctx)
	if err != nil || len(contents) != 1 {
		t.Errorf("PortContents = %+v, %v", contents, err)
	}
}

func TestPortServicePortByName(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	ports := repository.NewPortRepository(db)
	engines := repository.NewEngineRepository(db)
	svc := NewPortService(ports, engines)

	if _, err := svc.Port(ctx, "Esbjerg"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("missing port err = %v", err)
	}
	if err := ports.Upsert(ctx, &models.Port{PortName: "Esbjerg", Country: "DNK", Latitude: 55.46, Longitude: 8.43}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	p, err := svc.Port(ctx, "Esbjerg")
	if err != nil || p.Country != "DNK" {
		t.Errorf("Port = %+v, %v", p, err)
	}

	all, err := svc.Ports(ctx)
	if err != nil || len(all) != 1 {
		t.Errorf("Ports = %+v, %v", all, err)
	}

	if err := engines.Add(ctx, "9000001"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	records, err := svc.EngineData(ctx)
	if err != nil || len(records) != 1 || records[0].IMONumber != "9000001" {
		t.Errorf("EngineData = %+v, %v", records, err)
	}
}
