package domain

import "path/filepath"

// Default PETSC_ARCH tag for the cached builds.
const DefaultPetscArch = "arch-linux-c-opt"

// DefaultPlan returns the built-in bootstrap plan for the numerical stack:
// an OpenBLAS backend, PETSc and SLEPc on top of it, and the three Python
// bindings installed without transitive dependencies.
//
// Order matters. PETSc consumes the OpenBLAS artifacts, SLEPc consumes the
// configured PETSc tree, and each binding's setup script reads the install
// locations exported by the library stages.
func DefaultPlan(cacheRoot string) *Plan {
	petscDir := filepath.Join(cacheRoot, "petsc")
	slepcDir := filepath.Join(cacheRoot, "slepc")

	return &Plan{
		CacheRoot: cacheRoot,
		Env: map[string]string{
			"PETSC_ARCH": DefaultPetscArch,
		},
		Repositories: []Repository{
			{Name: "OpenBLAS", URL: "https://github.com/OpenMathLib/OpenBLAS.git", Depth: 1},
			{Name: "petsc", URL: "https://gitlab.com/petsc/petsc.git", Depth: 1},
			{Name: "slepc", URL: "https://gitlab.com/slepc/slepc.git", Depth: 1},
			{Name: "petsc4py", URL: "https://gitlab.com/petsc/petsc4py.git", Depth: 1},
			{Name: "slepc4py", URL: "https://gitlab.com/slepc/slepc4py.git", Depth: 1},
			{Name: "mpi4py", URL: "https://github.com/mpi4py/mpi4py.git", Depth: 1},
		},
		Stages: []Stage{
			{
				Name:  "openblas",
				Repo:  "OpenBLAS",
				Build: [][]string{{"make"}},
			},
			{
				Name: "petsc",
				Repo: "petsc",
				Env: map[string]string{
					"PETSC_DIR": petscDir,
				},
				Build: [][]string{
					{"./configure", "--with-blaslapack-dir=" + filepath.Join(cacheRoot, "OpenBLAS")},
					{"make", "all"},
				},
				Test: [][]string{
					{"make", "check"},
					{"make", "streams"},
				},
			},
			{
				Name: "slepc",
				Repo: "slepc",
				Env: map[string]string{
					"SLEPC_DIR": slepcDir,
				},
				Build: [][]string{
					{"./configure"},
					{"make"},
				},
				Test: [][]string{
					{"make", "check"},
				},
			},
			{
				Name:    "petsc4py",
				Repo:    "petsc4py",
				Install: []string{"pip", "install", "--no-deps", "."},
			},
			{
				Name:    "slepc4py",
				Repo:    "slepc4py",
				Install: []string{"pip", "install", "--no-deps", "."},
			},
			{
				Name:    "mpi4py",
				Repo:    "mpi4py",
				Install: []string{"pip", "install", "--no-deps", "."},
			},
		},
	}
}
