package components

import "github.com/pthm-cable/meadow/genome"

// Genes attaches a heritable genome to an agent.
type Genes struct {
	Genome *genome.Genome
}
