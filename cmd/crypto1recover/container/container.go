package container

import (
	"go.uber.org/fx"

	"github.com/sergeii/crypto1recover/internal/core/usecases/cleanjobs"
	"github.com/sergeii/crypto1recover/internal/core/usecases/getjob"
	"github.com/sergeii/crypto1recover/internal/core/usecases/recoverstate"
	"github.com/sergeii/crypto1recover/internal/core/usecases/solvejob"
	"github.com/sergeii/crypto1recover/internal/core/usecases/submitjob"
)

type Container struct {
	RecoverState recoverstate.UseCase
	SubmitJob    submitjob.UseCase
	GetJob       getjob.UseCase
	SolveJob     solvejob.UseCase
	CleanJobs    cleanjobs.UseCase
}

func New(
	recoverStateUseCase recoverstate.UseCase,
	submitJobUseCase submitjob.UseCase,
	getJobUseCase getjob.UseCase,
	solveJobUseCase solvejob.UseCase,
	cleanJobsUseCase cleanjobs.UseCase,
) Container {
	return Container{
		RecoverState: recoverStateUseCase,
		SubmitJob:    submitJobUseCase,
		GetJob:       getJobUseCase,
		SolveJob:     solveJobUseCase,
		CleanJobs:    cleanJobsUseCase,
	}
}

var Module = fx.Module("container",
	fx.Provide(recoverstate.New),
	fx.Provide(submitjob.New),
	fx.Provide(getjob.New),
	fx.Provide(solvejob.New),
	fx.Provide(cleanjobs.New),
	fx.Provide(New),
)
