// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package profile_test

import (
	"context"
	"path/filepath"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/modfloat/internal/directive"
	"github.com/holomush/modfloat/internal/profile"
	"github.com/holomush/modfloat/internal/script"
	"github.com/holomush/modfloat/internal/sheet"
	"github.com/holomush/modfloat/internal/store"
)

const warrior = `format: "1.0"
name: warrior
stats:
  attributes.strength: {base: 14}
  attributes.agility: {base: 9}
  combat.health: {base: 150}
  combat.armor: {base: 4}
owners:
  - name: Girdle of Giants
    directives:
      - stats: attributes.strength
        program: set 19 @0 as "girdle"
  - name: Rage
    directives:
      - stats: "attributes.*"
        program: |
          add 2 @5 as "rage"
          mul 1.1 @10
  - name: Health Cap
    directives:
      - stats: combat.health
        program: custom "if v > 120 then return 120 end return v" @100 as "cap"
  - name: Sundered
    directives:
      - stats: "combat.armor"
        program: sub 10 @1; min 0 @2
`

var _ = Describe("Profiles", func() {
	var (
		compiler *script.Compiler
		s        *sheet.Sheet
	)

	BeforeEach(func() {
		compiler = script.NewCompiler(script.Options{})
		p, err := profile.Load([]byte(warrior))
		Expect(err).NotTo(HaveOccurred())
		s, err = profile.Build(p, sheet.Options{Compile: compiler.Transform, Metrics: true})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		compiler.Close()
	})

	value := func(stat string) float64 {
		v, err := s.Value(stat)
		Expect(err).NotTo(HaveOccurred())
		return v
	}

	It("applies every owner in merge order", func() {
		Expect(value("attributes.strength")).To(BeNumerically("~", 23.1, 1e-9))
		Expect(value("attributes.agility")).To(BeNumerically("~", 12.1, 1e-9))
		Expect(value("combat.health")).To(Equal(120.0))
		Expect(value("combat.armor")).To(Equal(0.0))
	})

	It("explains each stat", func() {
		trace, err := s.Trace("attributes.strength")
		Expect(err).NotTo(HaveOccurred())
		Expect(trace).To(ContainSubstring(`(Girdle of Giants | "girdle")`))
		Expect(trace).To(ContainSubstring(`(Rage | "rage")`))
	})

	It("restores a stat when its owner is retracted", func() {
		removed := 0
		for _, id := range s.Owners() {
			if s.DisplayName(id) == "Rage" {
				removed += s.RetractOwner(id)
			}
		}
		Expect(removed).To(Equal(4))
		Expect(value("attributes.strength")).To(Equal(19.0))
		Expect(value("attributes.agility")).To(Equal(9.0))
	})

	It("is idempotent when owners re-apply the same directives", func() {
		before := value("combat.health")
		st, err := s.Stat("combat.health")
		Expect(err).NotTo(HaveOccurred())
		mods := st.Modifications()

		for _, id := range s.Owners() {
			if s.DisplayName(id) == "Health Cap" {
				prog := directive.MustParse(`custom "if v > 120 then return 120 end return v" @100 as "cap"`)
				Expect(s.Apply("combat.health", id, prog)).To(Succeed())
			}
		}
		Expect(st.Modifications()).To(Equal(mods))
		Expect(value("combat.health")).To(Equal(before))
	})

	It("serializes concurrent appliers", func() {
		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				id := s.RegisterOwner("aura")
				_, err := s.ApplyMatching("combat.*", id, directive.MustParse("add 1 @50"))
				Expect(err).NotTo(HaveOccurred())
			}()
		}
		wg.Wait()
		Expect(value("combat.armor")).To(Equal(16.0))
	})

	It("round-trips bases through a SQLite snapshot", func() {
		ctx := context.Background()
		st, err := store.OpenSQLite(ctx, filepath.Join(GinkgoT().TempDir(), "snap.db"))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(st.Close)

		Expect(store.SaveSheet(ctx, st, s)).To(Succeed())

		restored := sheet.New(sheet.Options{ID: s.ID()})
		Expect(store.LoadSheet(ctx, st, restored)).To(Succeed())
		Expect(restored.Snapshot()).To(Equal(s.Snapshot()))
	})
})
