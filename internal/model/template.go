// Package model builds the parameterized BNGL description of the LDLR-LDL
// uptake network. The topology is fixed; the only variant-dependent knob is
// the surface unbinding rate, which scales inversely with the variant's
// functional score.
package model

import (
	"fmt"
	"math"
)

// ScoreFloor is the minimum functional score used for rate scaling. Scores
// at or below zero would otherwise produce a division by zero or a negative
// rate.
const ScoreFloor = 0.01

// ObservableInternalized is the observable the pipeline reads: the total
// count of LDL particles in the endosomal and lysosomal compartments.
const ObservableInternalized = "LDL_internalized"

// SurfaceOffRate returns the k_off_surf rate for a functional score:
// 1 / max(score, ScoreFloor). The result is always finite and positive.
func SurfaceOffRate(score float64) float64 {
	return 1.0 / math.Max(score, ScoreFloor)
}

// Build renders the complete BNGL model for a variant. Side-effect-free.
func Build(name string, score float64) string {
	return fmt.Sprintf(bnglTemplate, name, score, SurfaceOffRate(score))
}

// bnglTemplate is the fixed four-module LDLR-LDL network. Placeholders:
// variant name, functional score, k_off_surf.
const bnglTemplate = `# LDLR Model - %s
# Functional score: %.3f

begin model

begin parameters
    # Binding (scaled by functional score)
    k_on_base      1.0
    k_off_surf     %.4f
    k_off_endo     50.0

    # Module strengths
    strength_LA3   1.0
    strength_LA4   1.0
    strength_LA5   1.0
    strength_LA7   0.8

    # Trafficking
    k_endo         2.0
    k_recycle      3.0
    k_degrade      5.0

    # Initial conditions
    LDLR_init      1000
    LDL_conc       100
end parameters

begin molecule types
    LDLR(la3,la4,la5,la7,loc~surface~endosome)
    LDL(ldlr,loc~extra~endo~lyso)
end molecule types

begin seed species
    LDLR(la3,la4,la5,la7,loc~surface)  LDLR_init
    LDL(ldlr,loc~extra)  LDL_conc
end seed species

begin observables
    Molecules  LDLR_surface      LDLR(loc~surface)
    Molecules  LDLR_endosome     LDLR(loc~endosome)
    Molecules  LDL_free          LDL(ldlr,loc~extra)
    Molecules  LDL_internalized  LDL(loc~endo) LDL(loc~lyso)
    Molecules  Complex_surface   LDLR(la3!+,loc~surface)
end observables

begin reaction rules
    # LDLR-LDL Binding
    LDLR(la3,loc~surface) + LDL(ldlr,loc~extra) <-> \
        LDLR(la3!1,loc~surface).LDL(ldlr!1,loc~extra) \
        k_on_base*strength_LA3, k_off_surf

    LDLR(la4,loc~surface) + LDL(ldlr,loc~extra) <-> \
        LDLR(la4!1,loc~surface).LDL(ldlr!1,loc~extra) \
        k_on_base*strength_LA4, k_off_surf

    LDLR(la5,loc~surface) + LDL(ldlr,loc~extra) <-> \
        LDLR(la5!1,loc~surface).LDL(ldlr!1,loc~extra) \
        k_on_base*strength_LA5, k_off_surf

    LDLR(la7,loc~surface) + LDL(ldlr,loc~extra) <-> \
        LDLR(la7!1,loc~surface).LDL(ldlr!1,loc~extra) \
        k_on_base*strength_LA7, k_off_surf

    # Endocytosis
    LDLR(la3!1,loc~surface).LDL(ldlr!1,loc~extra) -> \
        LDLR(la3!1,loc~endosome).LDL(ldlr!1,loc~endo)  k_endo

    LDLR(la4!1,loc~surface).LDL(ldlr!1,loc~extra) -> \
        LDLR(la4!1,loc~endosome).LDL(ldlr!1,loc~endo)  k_endo

    LDLR(la5!1,loc~surface).LDL(ldlr!1,loc~extra) -> \
        LDLR(la5!1,loc~endosome).LDL(ldlr!1,loc~endo)  k_endo

    LDLR(la7!1,loc~surface).LDL(ldlr!1,loc~extra) -> \
        LDLR(la7!1,loc~endosome).LDL(ldlr!1,loc~endo)  k_endo

    # LDL Release (pH-dependent)
    LDLR(la3!1,loc~endosome).LDL(ldlr!1,loc~endo) -> \
        LDLR(la3,loc~endosome) + LDL(ldlr,loc~endo)  k_off_endo

    LDLR(la4!1,loc~endosome).LDL(ldlr!1,loc~endo) -> \
        LDLR(la4,loc~endosome) + LDL(ldlr,loc~endo)  k_off_endo

    LDLR(la5!1,loc~endosome).LDL(ldlr!1,loc~endo) -> \
        LDLR(la5,loc~endosome) + LDL(ldlr,loc~endo)  k_off_endo

    LDLR(la7!1,loc~endosome).LDL(ldlr!1,loc~endo) -> \
        LDLR(la7,loc~endosome) + LDL(ldlr,loc~endo)  k_off_endo

    # Receptor Recycling
    LDLR(la3,la4,la5,la7,loc~endosome) -> \
        LDLR(la3,la4,la5,la7,loc~surface)  k_recycle

    # LDL Degradation
    LDL(ldlr,loc~endo) -> LDL(ldlr,loc~lyso)  k_recycle
    LDL(loc~lyso) -> 0  k_degrade

end reaction rules

end model
`
