package regress

// PoissonOption configures a Poisson model.
type PoissonOption func(*Poisson)

// WithMaxIter sets the IRLS iteration cap.
func WithMaxIter(n int) PoissonOption {
	return func(p *Poisson) {
		p.MaxIter = n
	}
}

// WithTol sets the IRLS convergence tolerance.
func WithTol(tol float64) PoissonOption {
	return func(p *Poisson) {
		p.Tol = tol
	}
}

// ForestOption configures a RandomForest.
type ForestOption func(*RandomForest)

// WithMaxFeatures sets the number of features tried at each split.
func WithMaxFeatures(n int) ForestOption {
	return func(rf *RandomForest) {
		rf.MaxFeatures = n
	}
}

// WithMinLeaf sets the minimum number of training rows per leaf.
func WithMinLeaf(n int) ForestOption {
	return func(rf *RandomForest) {
		rf.MinLeaf = n
	}
}

// MARSOption configures a MARS model.
type MARSOption func(*MARS)

// WithDegrees sets the candidate interaction degrees for the sweep.
func WithDegrees(degrees []int) MARSOption {
	return func(m *MARS) {
		m.Degrees = degrees
	}
}

// WithNPrunes sets the candidate pruned sizes for the sweep.
func WithNPrunes(nprunes []int) MARSOption {
	return func(m *MARS) {
		m.NPrunes = nprunes
	}
}
