package mapgen

// tridiagSolve solves a tridiagonal system Ax = r via the Thomas algorithm,
// writing the solution into u. a is the sub-diagonal (a[0] is unused), b the
// diagonal, c the super-diagonal (c[n-1] is unused).
func tridiagSolve(a, b, c, r []float64, u []float64) {
	n := len(b)
	gam := make([]float64, n)

	bet := b[0]
	u[0] = r[0] / bet
	for j := 1; j < n; j++ {
		gam[j] = c[j-1] / bet
		bet = b[j] - a[j]*gam[j]
		if bet == 0 {
			// Degenerate system; hold the previous value rather than panic,
			// since a single unstable cell shouldn't abort the whole sweep.
			u[j] = u[j-1]
			continue
		}
		u[j] = (r[j] - a[j]*u[j-1]) / bet
	}
	for j := n - 2; j >= 0; j-- {
		u[j] -= gam[j+1] * u[j+1]
	}
}

// grid is a row-major nx*ny float64 field with bounds-checked indexing.
type grid struct {
	nx, ny int
	data   []float64
}

func newGrid(nx, ny int) *grid {
	return &grid{nx: nx, ny: ny, data: make([]float64, nx*ny)}
}

func (g *grid) at(x, y int) float64  { return g.data[y*g.nx+x] }
func (g *grid) set(x, y int, v float64) { g.data[y*g.nx+x] = v }

// diffuse applies one ADI (alternating-direction-implicit) hillslope
// diffusion step to height h with basement b, following the classic
// fastscapelib-fortran scheme: an implicit sweep along x, then along y, each
// solved with the tridiagonal (Thomas) algorithm. kd is the per-cell
// diffusivity (m^2/year); boundaries are held fixed.
func diffuse(h, b *grid, dt, cellSize float64, kd func(x, y int) float64) {
	nx, ny := h.nx, h.ny
	if nx < 3 || ny < 3 {
		return
	}
	dx2 := cellSize * cellSize
	zint := newGrid(nx, ny)
	zintp := newGrid(nx, ny)
	for i := range h.data {
		zint.data[i] = h.data[i]
	}
	copy(zintp.data, zint.data)

	f := make([]float64, nx)
	diag := make([]float64, nx)
	sup := make([]float64, nx)
	inf := make([]float64, nx)
	res := make([]float64, nx)

	// Sweep 1: implicit along x, explicit along y.
	for y := 1; y < ny-1; y++ {
		for x := 1; x < nx-1; x++ {
			factxp := (kd(x+1, y) + kd(x, y)) / 2 * (dt / 2) / dx2
			factxm := (kd(x-1, y) + kd(x, y)) / 2 * (dt / 2) / dx2
			factyp := (kd(x, y+1) + kd(x, y)) / 2 * (dt / 2) / dx2
			factym := (kd(x, y-1) + kd(x, y)) / 2 * (dt / 2) / dx2
			diag[x] = 1 + factxp + factxm
			sup[x] = -factxp
			inf[x] = -factxm
			f[x] = zintp.at(x, y) + factyp*zintp.at(x, y+1) - (factyp+factym)*zintp.at(x, y) + factym*zintp.at(x, y-1)
		}
		diag[0], sup[0], f[0] = 1, 0, zintp.at(0, y)
		diag[nx-1], inf[nx-1], f[nx-1] = 1, 0, zintp.at(nx-1, y)

		tridiagSolve(inf, diag, sup, f, res)
		for x := 0; x < nx; x++ {
			zint.set(x, y, res[x])
		}
	}

	fy := make([]float64, ny)
	diagy := make([]float64, ny)
	supy := make([]float64, ny)
	infy := make([]float64, ny)
	resy := make([]float64, ny)

	// Sweep 2: implicit along y, explicit along x, using sweep 1's output.
	for x := 1; x < nx-1; x++ {
		for y := 1; y < ny-1; y++ {
			factxp := (kd(x+1, y) + kd(x, y)) / 2 * (dt / 2) / dx2
			factxm := (kd(x-1, y) + kd(x, y)) / 2 * (dt / 2) / dx2
			factyp := (kd(x, y+1) + kd(x, y)) / 2 * (dt / 2) / dx2
			factym := (kd(x, y-1) + kd(x, y)) / 2 * (dt / 2) / dx2
			diagy[y] = 1 + factyp + factym
			supy[y] = -factyp
			infy[y] = -factym
			fy[y] = zint.at(x, y) + factxp*zint.at(x+1, y) - (factxp+factxm)*zint.at(x, y) + factxm*zint.at(x-1, y)
		}
		diagy[0], supy[0], fy[0] = 1, 0, zint.at(x, 0)
		diagy[ny-1], infy[ny-1], fy[ny-1] = 1, 0, zint.at(x, ny-1)

		tridiagSolve(infy, diagy, supy, fy, resy)
		for y := 0; y < ny; y++ {
			zintp.set(x, y, resy[y])
		}
	}

	for i := range h.data {
		h.data[i] = zintp.data[i]
		if zintp.data[i] < b.data[i] {
			b.data[i] = zintp.data[i]
		}
	}
}
