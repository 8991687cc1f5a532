// Package lvstat is an in-memory toolkit for constrained linear regression
// over labeled tables: dense linear algebra, thresholded SVD, keyed frames and
// an equality-constrained weighted least-squares engine on top of them.
//
// 🚀 What is inside?
//
//	numeric/     tolerance comparator, closed intervals, finiteness checks
//	worm/        write-once ordered maps (insertion order, no overwrite)
//	matrix/      Dense and Sparse matrices, products, partial-pivoting LU,
//	             block assembly, gonum interop
//	svd/         singular value decomposition with a rank threshold,
//	             pseudo-inverse and least-squares residual checks
//	frame/       row/column keyed tables of float64 with NaN as missing
//	regression/  models, constraints, category identification, the
//	             bordered normal-equation system and its solver
//
// ✨ The regression engine solves
//
//	min (y − Xβ)ᵀ W (y − Xβ)   subject to   Aβ = c
//
// through the augmented system
//
//	[ XᵀWX  Aᵀ ] [β]   [XᵀWy]
//	[ A     0  ] [λ] = [ c  ]
//
// and reports β, the Lagrange multipliers λ, fitted values, residuals and
// the constrained leverage diagonal, each labeled by its key.
//
// Quick start:
//
//	model, _ := regression.Build("price", []string{"one", "size", "Ford", "GM"})
//	model, _ = model.AddCategory("make", []string{"Ford", "GM"})
//	solver, _ := regression.NewSolver(model, table)
//	res, _ := solver.Solve()
//	fmt.Println(res.Beta())
//
// Models can also be declared in YAML, see regression.ParseModelConfig.
//
//	go get github.com/katalvlaran/lvstat
package lvstat
