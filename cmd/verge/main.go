// Package main provides the Verge ML command line interface.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/verge-ml/verge/backend/blas"
	"github.com/verge-ml/verge/backend/cpu"
	"github.com/verge-ml/verge/backend/webgpu"
	"github.com/verge-ml/verge/solver"
	"github.com/verge-ml/verge/svm"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Verge ML %s\n", version)
			return
		case "train":
			if err := train(os.Args[2:]); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Println("Verge ML - LS-SVM classification for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  train      Train a classifier on a CSV file (last column is the label)")
}

func train(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	var (
		dataPath    = fs.String("data", "", "CSV file, one data point per row, label in the last column")
		kernelName  = fs.String("kernel", "linear", "kernel function: linear, polynomial, rbf, sigmoid, laplacian, chi-squared")
		backendName = fs.String("backend", "cpu", "compute backend: cpu, blas, gpu")
		precondName = fs.String("precond", "none", "CG preconditioner: none, jacobi, cholesky")
		cost        = fs.Float64("cost", 1.0, "regularization parameter C")
		gamma       = fs.Float64("gamma", 0, "kernel gamma, 0 means 1/num_features")
		degree      = fs.Int("degree", 3, "polynomial degree")
		coef0       = fs.Float64("coef0", 0, "polynomial and sigmoid coef0")
		epsilon     = fs.Float64("epsilon", 0.001, "CG residual tolerance")
		maxIter     = fs.Int("max-iter", 0, "CG iteration cap, 0 means number of data points")
		verbose     = fs.Bool("verbose", false, "log each CG iteration")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataPath == "" {
		return fmt.Errorf("-data is required")
	}

	features, labels, err := loadCSV(*dataPath)
	if err != nil {
		return err
	}
	ds, err := svm.NewDataset(features, labels)
	if err != nil {
		return err
	}

	param := svm.DefaultParameter()
	param.Cost = *cost
	param.Gamma = *gamma
	param.Degree = *degree
	param.Coef0 = *coef0
	param.Epsilon = *epsilon
	param.MaxIter = *maxIter
	if param.Kernel, err = parseKernel(*kernelName); err != nil {
		return err
	}
	if param.Preconditioner, err = parsePrecond(*precondName); err != nil {
		return err
	}

	backend, release, err := selectBackend(*backendName)
	if err != nil {
		return err
	}
	defer release()

	tracker := solver.NewLogTracker(slog.New(slog.NewTextHandler(os.Stderr, nil)), *verbose)
	model, err := svm.Fit(ds, param, backend, svm.WithTracker(tracker))
	if err != nil {
		return err
	}

	score, err := model.Score(ds)
	if err != nil {
		return err
	}
	fmt.Printf("model %s: %d data points, %d CG iterations, training accuracy %.4f\n",
		model.ID(), ds.NumRows(), model.Iterations(), score)
	return nil
}

func loadCSV(path string) ([][]float64, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	features := make([][]float64, 0, len(records))
	labels := make([]int, 0, len(records))
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, nil, fmt.Errorf("row %d: need at least one feature and a label", i+1)
		}
		row := make([]float64, len(rec)-1)
		for j, field := range rec[:len(rec)-1] {
			if row[j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, nil, fmt.Errorf("row %d, column %d: %w", i+1, j+1, err)
			}
		}
		label, err := strconv.Atoi(rec[len(rec)-1])
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: label: %w", i+1, err)
		}
		features = append(features, row)
		labels = append(labels, label)
	}
	return features, labels, nil
}

func parseKernel(name string) (svm.KernelType, error) {
	switch name {
	case "linear":
		return svm.Linear, nil
	case "polynomial":
		return svm.Polynomial, nil
	case "rbf":
		return svm.RBF, nil
	case "sigmoid":
		return svm.Sigmoid, nil
	case "laplacian":
		return svm.Laplacian, nil
	case "chi-squared":
		return svm.ChiSquared, nil
	}
	return 0, fmt.Errorf("unknown kernel %q", name)
}

func parsePrecond(name string) (svm.PreconditionerType, error) {
	switch name {
	case "none":
		return svm.PrecondNone, nil
	case "jacobi":
		return svm.PrecondJacobi, nil
	case "cholesky":
		return svm.PrecondCholesky, nil
	}
	return 0, fmt.Errorf("unknown preconditioner %q", name)
}

func selectBackend(name string) (svm.Backend, func(), error) {
	switch name {
	case "cpu":
		return cpu.New(), func() {}, nil
	case "blas":
		return blas.New(), func() {}, nil
	case "gpu":
		b, err := webgpu.New()
		if err != nil {
			return nil, nil, err
		}
		return b, b.Release, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", name)
}
