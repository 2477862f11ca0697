package handlers

// @title Workout Planner API
// @version 1.0
// @description Generates workout plans from a training goal, a duration and a set of body parts

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /

// @tag.name hello
// @tag.description Static greeting

// @tag.name workout
// @tag.description Workout plan generation
