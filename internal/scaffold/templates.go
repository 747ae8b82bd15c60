package scaffold

const gitignoreTemplate = `# BioNetGen outputs
*.net
*.gdat
*.cdat
*.rxn
*.species
*.groups
*.log

# Generated model files
results/data/*.bngl
results/data/history.db*
results/data/run_trace.jsonl

# Data files (large)
*.xlsx
*.xls
data/raw/

# OS
.DS_Store
Thumbs.db
*.swp
*.swo
*~

# IDE
.vscode/
.idea/

# Temporary
temp/
tmp/
*.tmp
`

const readmeTemplate = `# LDLR Functional Landscape Modeling

Computational rule-based model of the LDL receptor system, driven by the
ldlrsim pipeline and the external BioNetGen kinetics engine.

## Quick Start

` + "```bash" + `
# Check the environment
ldlrsim doctor

# Run all variant simulations
ldlrsim run

# Generate validation and separation plots
ldlrsim analyze
` + "```" + `

## Workspace Structure

` + "```" + `
.
├── data/            # Variant functional scores (variants.csv)
├── results/data/    # Per-variant solver inputs and outputs
├── results/figures/ # Rendered plots
├── docs/            # Documentation
└── ldlrsim.yaml     # Pipeline configuration
` + "```" + `

## Documentation

- [Quick Start](docs/QUICKSTART.md)
- [1-Week Plan](docs/PLAN_1WEEK.md)

## Outputs

- results/simulation_results.csv - per-variant scores
- results/figures/validation.png - model vs. experiment scatter
- results/figures/separation.png - pathogenic vs. benign distribution
`

const configTemplate = `# ldlrsim configuration
solver:
  binary: bionetgen

simulation:
  t_end: 200
  n_steps: 200

paths:
  data_dir: results/data
  figures_dir: results/figures
  results_table: results/simulation_results.csv
  history_db: results/data/history.db
  variants_file: data/variants.csv

logging:
  level: info
`

const quickstartTemplate = `# Quick Start Guide

## Installation

Install the BioNetGen CLI and make sure it is on your PATH, then run:

` + "```bash" + `
ldlrsim doctor
` + "```" + `

## Run Analysis

` + "```bash" + `
# 1. Run all variants
ldlrsim run

# 2. Generate plots
ldlrsim analyze
` + "```" + `

## Expected Output

- results/simulation_results.csv - data table
- results/figures/validation.png - validation plot
- results/figures/separation.png - separation plot

## Troubleshooting

**Solver not found:**
- Set the binary path in ldlrsim.yaml or via LDLRSIM_SOLVER

**Poor correlation:**
- Expected for small sample (n=5)
- Focus on qualitative separation
`

const planTemplate = `# 1-Week LDLR Modeling Project

## Schedule

### Day 1: Setup & Base Model
- Install BioNetGen
- Verify with ldlrsim doctor
- Run the WT simulation

### Day 2: Variants
- Review variant scores in data/variants.csv
- Run all variants

### Day 3: Batch Simulations
- Full batch with ldlrsim run
- Inspect the results table

### Day 4: Analysis
- Generate plots with ldlrsim analyze
- Review correlation and separation

### Day 5: Documentation
- Write up results
- Push to version control

## Success Criteria

- 5 variants simulated
- r > 0.5 correlation
- 2 figures generated
`
