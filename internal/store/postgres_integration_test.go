// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/holomush/modfloat/internal/sheet"
	"github.com/holomush/modfloat/internal/store"
)

var _ = Describe("PostgresSnapshotStore", Ordered, func() {
	var (
		ctx       context.Context
		container *postgres.PostgresContainer
		connStr   string
		pool      *pgxpool.Pool
		snapshots *store.PostgresSnapshotStore
	)

	BeforeAll(func() {
		ctx = context.Background()
		var err error
		container, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("modfloat_test"),
			postgres.WithUsername("modfloat"),
			postgres.WithPassword("modfloat"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second),
			),
		)
		Expect(err).NotTo(HaveOccurred())

		connStr, err = container.ConnectionString(ctx, "sslmode=disable")
		Expect(err).NotTo(HaveOccurred())

		pool, err = store.ConnectPostgres(ctx, connStr, nil)
		Expect(err).NotTo(HaveOccurred())
		snapshots = store.NewPostgresSnapshotStore(pool)
	})

	AfterAll(func() {
		if pool != nil {
			pool.Close()
		}
		if container != nil {
			_ = container.Terminate(ctx)
		}
	})

	It("reports a missing schema before migration", func() {
		_, err := snapshots.Load(ctx, sheet.NewID())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("stat_snapshots"))
	})

	It("migrates up", func() {
		m, err := store.NewMigrator(connStr)
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = m.Close() }()

		Expect(m.Up()).To(Succeed())
		version, dirty, err := m.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(1)))
		Expect(dirty).To(BeFalse())

		pending, err := m.Pending()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(BeEmpty())
	})

	It("round-trips a sheet snapshot", func() {
		src := sheet.New(sheet.Options{})
		Expect(src.Define("attributes.strength", 12)).To(Succeed())
		Expect(src.Define("combat.armor", 3)).To(Succeed())
		Expect(src.SetIgnore("combat.armor", true)).To(Succeed())

		Expect(store.SaveSheet(ctx, snapshots, src)).To(Succeed())

		dst := sheet.New(sheet.Options{ID: src.ID()})
		Expect(store.LoadSheet(ctx, snapshots, dst)).To(Succeed())
		Expect(dst.Snapshot()).To(Equal(src.Snapshot()))

		ids, err := snapshots.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(ids).To(ContainElement(src.ID()))
	})

	It("deletes snapshots", func() {
		id := sheet.NewID()
		Expect(snapshots.Save(ctx, id, []sheet.Base{{Stat: "hp", Value: 1}})).To(Succeed())
		Expect(snapshots.Delete(ctx, id)).To(Succeed())

		_, err := snapshots.Load(ctx, id)
		Expect(err).To(MatchError(store.ErrNotFound))
	})
})
