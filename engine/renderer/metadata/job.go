package metadata

/** Definition for the work a job does. The result is handed to OnComplete. */
type JobStart func(params interface{}) (interface{}, error)

/** Definition for completion of a job. */
type JobOnComplete func(result interface{})

/** Definition for failure of a job. */
type JobOnFailure func(err error)

/** @brief Describes a type of job */
type JobType int

const (
	/**
	 * @brief A general job that does not have any specific thread requirements.
	 * This means it matters little which job thread this job runs on.
	 */
	JOB_TYPE_GENERAL JobType = 0x02
	/**
	 * @brief A resource loading job. Decodes files into CPU memory only; GPU
	 * upload happens on the thread owning the graphics context.
	 */
	JOB_TYPE_RESOURCE_LOAD JobType = 0x04
)

/**
 * @brief Describes a job to be run. Callbacks run on the worker goroutine.
 */
type JobTask struct {
	JobType JobType
	/** @brief Data to be passed to the entry point upon execution. */
	InputParams interface{}
	/** @brief Invoked when the job starts. Required. */
	OnStart JobStart
	/** @brief Invoked when OnStart returns no error. Optional. */
	OnComplete JobOnComplete
	/** @brief Invoked when OnStart returns an error. Optional. */
	OnFailure JobOnFailure
	/** @brief Invoked after either outcome. Optional. */
	OnCompletionCallback func()
}
